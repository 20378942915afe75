package decoder

import (
	"fmt"
	"strings"

	"atatf/internal/atapi"
	"atatf/internal/atatf"
	"atatf/internal/cmdtable"
	"atatf/internal/command"
	"atatf/internal/common"
	"atatf/internal/policy"
	"atatf/internal/sample"
	"atatf/internal/strobe"
	"atatf/internal/taskfile"
)

// Decoder turns a PATA capture into an ordered annotation log. It owns the
// task-file register state and the ATAPI CDB session; each Decode call is a
// fresh single pass over one capture.
type Decoder struct {
	common.TraceComponent

	annotOut *common.AttachPt[AnnotationSink]

	cfg Config
	tbl *cmdtable.Table

	tf      *taskfile.File
	cdb     atapi.Session
	wide    bool // D8-D15 bound: Data accesses are 16 bit
	lastIdx atatf.SampleIndex
	stats   Stats
}

// New creates a decoder. Invalid options or custom tables are reported
// here, before any sample is read.
func New(cfg *Config) (*Decoder, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tbl, err := cmdtable.New(cfg.CustomCommands, cfg.CustomCDB)
	if err != nil {
		return nil, err
	}
	d := &Decoder{
		annotOut: common.NewAttachPt[AnnotationSink](),
		cfg:      *cfg,
		tbl:      tbl,
		tf:       taskfile.NewFile(),
	}
	d.InitTraceComponent("DCD_ATA")
	return d, nil
}

// AnnotationOutAttachPt is where the annotation sink is attached.
func (d *Decoder) AnnotationOutAttachPt() *common.AttachPt[AnnotationSink] {
	return d.annotOut
}

// Config returns a copy of the decoder options.
func (d *Decoder) Config() Config { return d.cfg }

// Table returns the merged mnemonic table.
func (d *Decoder) Table() *cmdtable.Table { return d.tbl }

// Stats returns the counters of the last Decode pass.
func (d *Decoder) Stats() Stats { return d.stats }

// Snapshot returns a copy of the current register file.
func (d *Decoder) Snapshot() taskfile.Snapshot { return d.tf.Snapshot() }

// Decode reads cur to the end, sending annotations to the attached sink.
// State from any earlier pass is discarded first, so decoding the same
// capture twice yields the same log.
func (d *Decoder) Decode(cur sample.Cursor) error {
	scfg := strobe.NewConfig()
	scfg.MinPulseWidth = d.cfg.MinPulseWidth
	det, err := strobe.NewDetector(cur, scfg)
	if err != nil {
		return err
	}
	if d.ErrorLogAttachPt().HasAttached() {
		det.ErrorLogAttachPt().ReplaceFirst(d.ErrorLogAttachPt().First())
		det.SetErrorLogLevel(d.ErrorLogLevel())
	}
	d.reset(cur.Channels())

	for {
		ev, ok := det.NextEvent()
		if !ok {
			break
		}
		var resp atatf.DatapathResp
		switch ev.Kind {
		case strobe.KindReset:
			resp = d.onBusReset(ev.Idx)
		case strobe.KindAccess:
			resp = d.onAccess(ev.Access)
		}
		if atatf.DataRespIsFatal(resp) {
			return d.sinkFatal(ev.Idx, resp)
		}
	}

	resp := d.onEOT()
	d.stats.Dropped = det.Dropped()
	if atatf.DataRespIsFatal(resp) {
		return d.sinkFatal(d.lastIdx, resp)
	}
	return det.Err()
}

func (d *Decoder) reset(chans sample.ChannelSet) {
	d.tf = taskfile.NewFile()
	d.cdb = atapi.Session{}
	d.wide = chans.Has(sample.D15)
	d.lastIdx = 0
	d.stats = Stats{}
}

func (d *Decoder) sinkFatal(idx atatf.SampleIndex, resp atatf.DatapathResp) error {
	err := common.NewErrorWithIdxMsg(atatf.ErrSevError, atatf.ErrSinkFatal, idx, common.DataRespStr(resp))
	d.LogError(err)
	return err
}

// emit applies the output policy and passes a to the sink.
func (d *Decoder) emit(a Annotation, pev policy.Event) atatf.DatapathResp {
	if !policy.Allow(pev, d.cfg.Policy) {
		d.stats.Filtered++
		return atatf.RespCont
	}
	d.stats.Annotations++
	if !d.annotOut.HasAttachedAndEnabled() {
		return atatf.RespCont
	}
	return d.annotOut.First().AnnotationIn(a)
}

// worst keeps the more severe of two responses.
func worst(a, b atatf.DatapathResp) atatf.DatapathResp {
	if b > a {
		return b
	}
	return a
}

func (d *Decoder) onAccess(acc taskfile.Access) atatf.DatapathResp {
	d.stats.Accesses++
	d.lastIdx = acc.End
	if acc.Reg == taskfile.RegNone {
		d.stats.Unmapped++
		return atatf.RespCont
	}

	pev := policy.Event{
		Kind:          policy.KindWrite,
		SessionActive: d.cdb.Active(),
		HasDMARQ:      acc.HasDMARQ,
		DMARQ:         acc.DMARQ,
	}
	at := func(cat Category, text string) Annotation {
		return Annotation{Start: acc.Start, End: acc.End, Category: cat, Text: text}
	}

	resp := atatf.RespCont
	if d.cfg.ParseCDB && d.cdb.Active() {
		res := d.cdb.Feed(acc, d.cfg.WatchCDBReads)
		sev := pev
		sev.Kind = policy.KindSession
		resp = d.onSession(res, at, sev)
		if res.Collected() {
			return resp
		}
	}

	switch {
	case acc.Reg == taskfile.RegData:
		pev.Kind = policy.KindData
		return worst(resp, d.emit(at(CatData, d.dataText(acc)), pev))

	case acc.IsRead():
		return worst(resp, d.onRead(acc, at, pev))

	case acc.Reg == taskfile.RegDevCtl:
		d.tf.Write(acc.Reg, acc.Value)
		return worst(resp, d.emit(at(CatDevCtl, "DEVCTL write: "+d.tf.DevCtl().String()), pev))

	case acc.Reg == taskfile.RegCommand:
		return worst(resp, d.onCommand(acc, at, pev))
	}

	name := acc.Reg.String()
	if d.tf.Write(acc.Reg, acc.Value) {
		name = "hob_" + name
	}
	return worst(resp, d.emit(at(CatRegisterWrite, fmt.Sprintf("%s = 0x%02X", name, acc.Value)), pev))
}

func (d *Decoder) dataText(acc taskfile.Access) string {
	op := "WRITE"
	if acc.IsRead() {
		op = "READ"
	}
	if d.wide {
		return fmt.Sprintf("DATA %s: 0x%04X", op, acc.Value16)
	}
	return fmt.Sprintf("DATA %s: 0x%02X", op, acc.Value)
}

func (d *Decoder) onRead(acc taskfile.Access, at func(Category, string) Annotation, pev policy.Event) atatf.DatapathResp {
	pev.Kind = policy.KindRead
	switch acc.Reg {
	case taskfile.RegStatus, taskfile.RegAltStatus:
		text := fmt.Sprintf("%s read: 0x%02X", strings.ToUpper(acc.Reg.String()), acc.Value)
		resp := d.emit(at(CatStatus, text), pev)
		// reading Status (not AltStatus) acknowledges the interrupt
		if acc.Reg == taskfile.RegStatus && acc.HasINTRQ && !acc.INTRQ {
			resp = worst(resp, d.emit(at(CatINTRQ, "INTRQ cleared"), pev))
		}
		return resp
	}
	return d.emit(at(CatRegisterRead, fmt.Sprintf("%s read: 0x%02X", acc.Reg, acc.Value)), pev)
}

func (d *Decoder) onCommand(acc taskfile.Access, at func(Category, string) Annotation, pev policy.Event) atatf.DatapathResp {
	d.stats.Commands++
	ev := command.Build(d.tf.Snapshot(), acc.Value, d.tbl)
	d.tf.Consume()
	resp := d.emit(at(CatCommand, ev.String()), pev)

	if ev.IsPacket() && d.cfg.ParseCDB {
		// an open session was already closed by Feed; Start reports nothing
		sev := pev
		sev.Kind = policy.KindSession
		resp = worst(resp, d.onSession(d.cdb.Start(d.cfg.CDBLength), at, sev))
	}
	return resp
}

func (d *Decoder) onSession(res atapi.Result, at func(Category, string) Annotation, pev policy.Event) atatf.DatapathResp {
	resp := atatf.RespCont
	if res.Collected() {
		switch {
		case res.Index == 0:
			text := fmt.Sprintf("ATAPI CDB[0]=0x%02X %s", res.Byte, d.tbl.CDBName(res.Byte))
			resp = d.emit(at(CatCDB, text), pev)
		case d.cfg.TraceCDBBytes:
			resp = d.emit(at(CatCDBByte, fmt.Sprintf("CDB[%d]=0x%02X", res.Index, res.Byte)), pev)
		}
	}

	switch res.Outcome {
	case atapi.OutComplete:
		d.stats.CDBs++
		resp = worst(resp, d.emit(at(CatCDBComplete, res.String()), pev))
	case atapi.OutAborted, atapi.OutAbandoned:
		resp = worst(resp, d.sessionError(at(CatSessionAborted, res.String()), atatf.ErrCDBAborted, pev))
	case atapi.OutIncomplete:
		resp = worst(resp, d.sessionError(at(CatSessionIncomplete, res.String()), atatf.ErrCDBIncomplete, pev))
	}
	return resp
}

func (d *Decoder) sessionError(a Annotation, code atatf.Err, pev policy.Event) atatf.DatapathResp {
	d.stats.CDBErrors++
	d.LogError(common.NewErrorWithIdxMsg(atatf.ErrSevWarn, code, a.Start, a.Text))
	return d.emit(a, pev)
}

func (d *Decoder) onBusReset(idx atatf.SampleIndex) atatf.DatapathResp {
	d.stats.BusResets++
	d.lastIdx = idx
	at := func(cat Category, text string) Annotation {
		return Annotation{Start: idx, End: idx, Category: cat, Text: text}
	}
	pev := policy.Event{Kind: policy.KindBus}

	resp := d.onSession(d.cdb.Abort("bus reset"), at, pev)
	d.tf.Reset()
	return worst(resp, d.emit(at(CatBusReset, "RESET asserted"), pev))
}

func (d *Decoder) onEOT() atatf.DatapathResp {
	idx := d.lastIdx
	at := func(cat Category, text string) Annotation {
		return Annotation{Start: idx, End: idx, Category: cat, Text: text}
	}
	return d.onSession(d.cdb.Finish(), at, policy.Event{Kind: policy.KindBus})
}
