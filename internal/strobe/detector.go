package strobe

import (
	"atatf/internal/atatf"
	"atatf/internal/common"
	"atatf/internal/sample"
	"atatf/internal/taskfile"
)

// EventKind distinguishes detector outputs.
type EventKind int

const (
	KindAccess EventKind = iota // qualified register access
	KindReset                   // RESET- asserted
)

// Event is one detector output. Access is only set for KindAccess.
type Event struct {
	Kind   EventKind
	Idx    atatf.SampleIndex
	Access taskfile.Access
}

type pulse struct {
	active     bool
	strobe     sample.Channel
	dir        taskfile.Direction
	start      atatf.SampleIndex
	cs0, cs1   bool
	addr       uint8
	data       sample.Sample
	contention bool
}

// Detector turns a sample cursor into a forward-only stream of register
// accesses. An access qualifies on the deasserting edge of a DIOR-/DIOW-
// pulse at least MinPulseWidth long with a chip select asserted at the
// asserting edge. Data lines are taken from the last sample the strobe was
// still asserted.
type Detector struct {
	common.TraceComponent

	cur   sample.Cursor
	chans sample.ChannelSet
	cfg   Config

	prev     sample.Sample
	havePrev bool
	p        pulse
	pending  []Event
	done     bool

	dropped int
}

// NewDetector creates a detector over cur. Missing required channels are
// a configuration error.
func NewDetector(cur sample.Cursor, cfg Config) (*Detector, error) {
	chans := cur.Channels()
	if err := chans.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{cur: cur, chans: chans, cfg: cfg}
	d.InitTraceComponent("STRB_ATA")
	return d, nil
}

// Dropped returns the number of strobe pulses discarded as noise.
func (d *Detector) Dropped() int { return d.dropped }

// Next returns the next register access, skipping reset events.
func (d *Detector) Next() (taskfile.Access, bool) {
	for {
		ev, ok := d.NextEvent()
		if !ok {
			return taskfile.Access{}, false
		}
		if ev.Kind == KindAccess {
			return ev.Access, true
		}
	}
}

// NextEvent pulls samples until an event is available. It returns false at
// the end of the capture.
func (d *Detector) NextEvent() (Event, bool) {
	for len(d.pending) == 0 {
		if d.done {
			return Event{}, false
		}
		s, ok := d.cur.Next()
		if !ok {
			d.done = true
			if d.p.active {
				// pulse never deasserted
				d.dropped++
				d.p = pulse{}
			}
			if err := d.cur.Err(); err != nil {
				d.LogMessage(atatf.ErrSevError, "capture read stopped: "+err.Error())
			}
			continue
		}
		d.processSample(s)
	}
	ev := d.pending[0]
	d.pending = d.pending[1:]
	return ev, true
}

// Err reports a capture read error that ended the stream early.
func (d *Detector) Err() error { return d.cur.Err() }

func (d *Detector) processSample(s sample.Sample) {
	// unbound lines read low
	s.Levels &= sample.Levels(d.chans)
	if !d.havePrev {
		d.prev = s
		d.havePrev = true
		return
	}
	prev := d.prev
	d.prev = s

	if d.chans.Has(sample.RESET) && prev.High(sample.RESET) && s.Low(sample.RESET) {
		d.pending = append(d.pending, Event{Kind: KindReset, Idx: s.Idx})
	}

	if d.p.active {
		other := sample.DIOR
		if d.p.strobe == sample.DIOR {
			other = sample.DIOW
		}
		if s.Low(d.p.strobe) {
			if s.Low(other) {
				d.p.contention = true
			}
			d.p.data = s
			return
		}
		d.endPulse(s.Idx)
	}

	wFall := prev.High(sample.DIOW) && s.Low(sample.DIOW)
	rFall := prev.High(sample.DIOR) && s.Low(sample.DIOR)
	switch {
	case wFall:
		d.startPulse(s, sample.DIOW, taskfile.DirWrite)
		d.p.contention = s.Low(sample.DIOR)
	case rFall:
		d.startPulse(s, sample.DIOR, taskfile.DirRead)
		d.p.contention = s.Low(sample.DIOW)
	}
}

func (d *Detector) startPulse(s sample.Sample, strobe sample.Channel, dir taskfile.Direction) {
	d.p = pulse{
		active: true,
		strobe: strobe,
		dir:    dir,
		start:  s.Idx,
		cs0:    s.Low(sample.CS0),
		cs1:    s.Low(sample.CS1),
		addr:   s.Addr(),
		data:   s,
	}
}

func (d *Detector) endPulse(end atatf.SampleIndex) {
	p := d.p
	d.p = pulse{}

	if p.contention || end-p.start < d.cfg.MinPulseWidth || (!p.cs0 && !p.cs1) {
		d.dropped++
		return
	}

	// both selects low: the control block wins
	bank := taskfile.BankCS0
	if p.cs1 {
		bank = taskfile.BankCS1
	}

	acc := taskfile.Access{
		Reg:     taskfile.Resolve(bank, p.addr, p.dir),
		Bank:    bank,
		Addr:    p.addr,
		Dir:     p.dir,
		Value:   p.data.Bus8(),
		Value16: p.data.Bus16(),
		Start:   p.start,
		End:     end,
	}
	if d.chans.Has(sample.DMARQ) {
		acc.HasDMARQ = true
		acc.DMARQ = p.data.High(sample.DMARQ)
	}
	if d.chans.Has(sample.INTRQ) {
		acc.HasINTRQ = true
		acc.INTRQ = p.data.High(sample.INTRQ)
	}
	d.pending = append(d.pending, Event{Kind: KindAccess, Idx: p.start, Access: acc})
}
