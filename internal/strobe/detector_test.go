package strobe

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"atatf/internal/atatf"
	"atatf/internal/common"
	"atatf/internal/sample"
	"atatf/internal/taskfile"
)

func collect(t *testing.T, cur sample.Cursor, cfg Config) ([]Event, *Detector) {
	t.Helper()
	d, err := NewDetector(cur, cfg)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	var evs []Event
	for ev, ok := d.NextEvent(); ok; ev, ok = d.NextEvent() {
		evs = append(evs, ev)
	}
	return evs, d
}

func TestDetectorWriteAndRead(t *testing.T) {
	b := NewBuilder()
	b.Write(taskfile.RegSectorCount, 0x08)
	b.Read(taskfile.RegAltStatus, 0x50)

	evs, d := collect(t, b.Cursor(), NewConfig())
	want := []Event{
		{Kind: KindAccess, Idx: 1, Access: taskfile.Access{
			Reg: taskfile.RegSectorCount, Bank: taskfile.BankCS0, Addr: 2, Dir: taskfile.DirWrite,
			Value: 0x08, Value16: 0x08, Start: 1, End: 4,
		}},
		{Kind: KindAccess, Idx: 7, Access: taskfile.Access{
			Reg: taskfile.RegAltStatus, Bank: taskfile.BankCS1, Addr: 6, Dir: taskfile.DirRead,
			Value: 0x50, Value16: 0x50, Start: 7, End: 10,
		}},
	}
	if diff := cmp.Diff(want, evs); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if d.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", d.Dropped())
	}
}

func TestDetectorBankSelection(t *testing.T) {
	b := NewBuilder()
	b.Cycle(taskfile.DirWrite, true, true, 6, 0x02, 3)   // both selects: control block
	b.Cycle(taskfile.DirWrite, false, false, 6, 0x02, 3) // no select: not a task-file cycle

	evs, d := collect(t, b.Cursor(), NewConfig())
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if evs[0].Access.Bank != taskfile.BankCS1 || evs[0].Access.Reg != taskfile.RegDevCtl {
		t.Errorf("both selects should resolve to CS1 devctl, got %v", evs[0].Access)
	}
	if d.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", d.Dropped())
	}
}

func TestDetectorGlitchFilter(t *testing.T) {
	b := NewBuilder()
	b.Cycle(taskfile.DirWrite, true, false, 3, 0x11, 1) // ringing
	b.Write(taskfile.RegLBA0, 0x22)

	cfg := NewConfig()
	cfg.MinPulseWidth = 2
	evs, d := collect(t, b.Cursor(), cfg)
	if len(evs) != 1 || evs[0].Access.Value != 0x22 {
		t.Fatalf("expected only the full-width write, got %+v", evs)
	}
	if d.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", d.Dropped())
	}

	// the same glitch passes at the default threshold
	evs, _ = collect(t, b.Cursor(), NewConfig())
	if len(evs) != 2 {
		t.Errorf("expected 2 events at default threshold, got %d", len(evs))
	}
}

func TestDetectorContention(t *testing.T) {
	idle := sample.Levels(0).Set(sample.DIOW, true).Set(sample.DIOR, true).Set(sample.CS1, true)
	both := idle.Set(sample.DIOW, false).Set(sample.DIOR, false)
	samples := []sample.Sample{
		{Idx: 0, Levels: idle},
		{Idx: 1, Levels: both},
		{Idx: 2, Levels: both},
		{Idx: 3, Levels: idle},
	}
	evs, d := collect(t, sample.NewSliceCursor(sample.RequiredChannels, samples), NewConfig())
	if len(evs) != 0 {
		t.Errorf("contended pulse should be dropped, got %+v", evs)
	}
	if d.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", d.Dropped())
	}
}

func TestDetectorStrobeHandoff(t *testing.T) {
	// Data write released on the same sample the read strobe falls
	idle := sample.Levels(0).Set(sample.DIOW, true).Set(sample.DIOR, true).Set(sample.CS1, true)
	wr, rd := idle.Set(sample.DIOW, false), idle.Set(sample.DIOR, false)
	for bit := range 8 {
		wr = wr.Set(sample.D0+sample.Channel(bit), 0x12&(1<<bit) != 0)
		rd = rd.Set(sample.D0+sample.Channel(bit), 0x34&(1<<bit) != 0)
	}
	samples := []sample.Sample{
		{Idx: 0, Levels: idle},
		{Idx: 1, Levels: wr},
		{Idx: 2, Levels: wr},
		{Idx: 3, Levels: rd},
		{Idx: 4, Levels: rd},
		{Idx: 5, Levels: idle},
	}
	evs, d := collect(t, sample.NewSliceCursor(sample.RequiredChannels, samples), NewConfig())
	if d.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", d.Dropped())
	}
	var got []taskfile.Access
	for _, ev := range evs {
		got = append(got, ev.Access)
	}
	want := []taskfile.Access{
		{Reg: taskfile.RegData, Bank: taskfile.BankCS0, Dir: taskfile.DirWrite, Value: 0x12, Value16: 0x12, Start: 1, End: 3},
		{Reg: taskfile.RegData, Bank: taskfile.BankCS0, Dir: taskfile.DirRead, Value: 0x34, Value16: 0x34, Start: 3, End: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("handoff accesses mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectorOpenPulseAtEOT(t *testing.T) {
	b := NewBuilder()
	b.Write(taskfile.RegCommand, 0xEC)
	b.Set(sample.CS0, false).Idle(1).Set(sample.DIOW, false).Idle(2)

	evs, d := collect(t, b.Cursor(), NewConfig())
	if len(evs) != 1 {
		t.Errorf("expected 1 event, got %d", len(evs))
	}
	if d.Dropped() != 1 {
		t.Errorf("open pulse should count as dropped, got %d", d.Dropped())
	}
}

func TestDetectorResetAndOptionalLines(t *testing.T) {
	b := NewBuilder().Bind(sample.RESET, sample.DMARQ, sample.INTRQ)
	b.Idle(1)
	b.PulseReset(2)
	b.Set(sample.DMARQ, true).Set(sample.INTRQ, true)
	b.Read(taskfile.RegStatus, 0x58)

	evs, _ := collect(t, b.Cursor(), NewConfig())
	if len(evs) != 2 {
		t.Fatalf("expected reset + access, got %+v", evs)
	}
	if evs[0].Kind != KindReset || evs[0].Idx != 1 {
		t.Errorf("expected reset at 1, got %+v", evs[0])
	}
	acc := evs[1].Access
	if !acc.HasDMARQ || !acc.DMARQ || !acc.HasINTRQ || !acc.INTRQ {
		t.Errorf("optional lines not sampled: %+v", acc)
	}

	// without the lines bound the access carries no levels
	b2 := NewBuilder()
	b2.Set(sample.DMARQ, true)
	b2.Read(taskfile.RegStatus, 0x58)
	evs, _ = collect(t, b2.Cursor(), NewConfig())
	if len(evs) != 1 || evs[0].Access.HasDMARQ || evs[0].Access.DMARQ {
		t.Errorf("unbound DMARQ should not be reported: %+v", evs)
	}
}

func TestDetectorNextSkipsReset(t *testing.T) {
	b := NewBuilder().Bind(sample.RESET)
	b.Idle(1).PulseReset(1)
	b.Write(taskfile.RegFeatures, 0x03)
	d, err := NewDetector(b.Cursor(), NewConfig())
	if err != nil {
		t.Fatal(err)
	}
	acc, ok := d.Next()
	if !ok || acc.Reg != taskfile.RegFeatures {
		t.Errorf("Next() = %v,%v", acc, ok)
	}
	if _, ok := d.Next(); ok {
		t.Errorf("expected end of stream")
	}
}

func TestDetectorData16(t *testing.T) {
	b := NewBuilder()
	b.WriteData(0xBEEF)
	evs, _ := collect(t, b.Cursor(), NewConfig())
	if evs[0].Access.Value16 != 0x00EF {
		t.Errorf("unbound D8-15 should read zero, got 0x%04X", evs[0].Access.Value16)
	}

	b = NewBuilder().Bind(sample.D8, sample.D9, sample.D10, sample.D11, sample.D12, sample.D13, sample.D14, sample.D15)
	b.WriteData(0xBEEF)
	evs, _ = collect(t, b.Cursor(), NewConfig())
	if evs[0].Access.Value16 != 0xBEEF || evs[0].Access.Value != 0xEF {
		t.Errorf("got Value16 0x%04X Value 0x%02X", evs[0].Access.Value16, evs[0].Access.Value)
	}
}

func TestDetectorMissingChannels(t *testing.T) {
	cur := sample.NewSliceCursor(sample.RequiredChannels.Without(sample.CS1), nil)
	_, err := NewDetector(cur, NewConfig())
	if !errors.Is(err, common.NewError(atatf.ErrSevError, atatf.ErrMissingChannel)) {
		t.Errorf("expected ErrMissingChannel, got %v", err)
	}
}
