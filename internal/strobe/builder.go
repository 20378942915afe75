package strobe

import (
	"atatf/internal/atatf"
	"atatf/internal/sample"
	"atatf/internal/taskfile"
)

// Builder synthesises PIO bus cycles as a sample stream, for tests and
// capture generation.
//
// Each cycle is laid out as: one setup sample with chip select and address
// driven, PulseWidth samples with the strobe asserted and data on the bus,
// one sample with the strobe released, and one sample with the chip select
// released.
type Builder struct {
	PulseWidth int

	idx     atatf.SampleIndex
	lv      sample.Levels
	chans   sample.ChannelSet
	samples []sample.Sample
}

// NewBuilder creates a builder with the required channels bound and the bus
// idle (strobes, selects and RESET- high).
func NewBuilder() *Builder {
	b := &Builder{PulseWidth: 3, chans: sample.RequiredChannels}
	for _, c := range []sample.Channel{sample.DIOW, sample.DIOR, sample.CS0, sample.CS1, sample.RESET} {
		b.lv = b.lv.Set(c, true)
	}
	return b
}

// Bind adds optional channels to the capture.
func (b *Builder) Bind(chans ...sample.Channel) *Builder {
	for _, c := range chans {
		b.chans = b.chans.With(c)
	}
	return b
}

// Set drives a line without emitting a sample.
func (b *Builder) Set(c sample.Channel, high bool) *Builder {
	b.lv = b.lv.Set(c, high)
	return b
}

// Idle emits n samples with the current levels.
func (b *Builder) Idle(n int) *Builder {
	for range n {
		b.emit()
	}
	return b
}

func (b *Builder) emit() {
	b.samples = append(b.samples, sample.Sample{Idx: b.idx, Levels: b.lv})
	b.idx++
}

func (b *Builder) setBus(v uint16) {
	for i := range 16 {
		c := sample.D0 + sample.Channel(i)
		if i >= 8 {
			c = sample.D8 + sample.Channel(i-8)
		}
		b.lv = b.lv.Set(c, v&(1<<i) != 0)
	}
}

// Cycle emits one bus cycle of the given pulse width.
func (b *Builder) Cycle(dir taskfile.Direction, cs0, cs1 bool, addr uint8, val uint16, width int) *Builder {
	b.lv = b.lv.Set(sample.CS0, !cs0).Set(sample.CS1, !cs1)
	b.lv = b.lv.Set(sample.DA0, addr&1 != 0).Set(sample.DA1, addr&2 != 0).Set(sample.DA2, addr&4 != 0)
	b.emit()

	strobe := sample.DIOW
	if dir == taskfile.DirRead {
		strobe = sample.DIOR
	}
	b.setBus(val)
	b.lv = b.lv.Set(strobe, false)
	b.Idle(width)

	b.lv = b.lv.Set(strobe, true)
	b.emit()

	b.lv = b.lv.Set(sample.CS0, true).Set(sample.CS1, true)
	b.emit()
	return b
}

// Write emits a write of v to register r.
func (b *Builder) Write(r taskfile.Register, v uint8) *Builder {
	return b.access(taskfile.DirWrite, r, uint16(v))
}

// Read emits a read of register r returning v.
func (b *Builder) Read(r taskfile.Register, v uint8) *Builder {
	return b.access(taskfile.DirRead, r, uint16(v))
}

// WriteData emits a 16-bit Data register write.
func (b *Builder) WriteData(v uint16) *Builder {
	return b.access(taskfile.DirWrite, taskfile.RegData, v)
}

func (b *Builder) access(dir taskfile.Direction, r taskfile.Register, v uint16) *Builder {
	bank, addr := taskfile.Location(r)
	return b.Cycle(dir, bank == taskfile.BankCS0, bank == taskfile.BankCS1, addr, v, b.PulseWidth)
}

// PulseReset drives RESET- low for n samples.
func (b *Builder) PulseReset(n int) *Builder {
	b.lv = b.lv.Set(sample.RESET, false)
	b.Idle(n)
	b.lv = b.lv.Set(sample.RESET, true)
	return b.Idle(1)
}

// NextIdx is the timestamp the next emitted sample will carry.
func (b *Builder) NextIdx() atatf.SampleIndex { return b.idx }

// Channels returns the bound channel set.
func (b *Builder) Channels() sample.ChannelSet { return b.chans }

// Samples returns the samples emitted so far.
func (b *Builder) Samples() []sample.Sample { return b.samples }

// Cursor returns a fresh cursor over the samples emitted so far.
func (b *Builder) Cursor() *sample.SliceCursor {
	return sample.NewSliceCursor(b.chans, b.samples)
}
