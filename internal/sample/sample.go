package sample

import "atatf/internal/atatf"

// Levels holds one bit per Channel, set when the line is high.
type Levels uint32

func (l Levels) High(c Channel) bool { return l&(1<<c) != 0 }

// Set returns l with channel c driven to the given level.
func (l Levels) Set(c Channel, high bool) Levels {
	if high {
		return l | 1<<c
	}
	return l &^ (1 << c)
}

// Sample is the level of every bound line at one timestamp.
type Sample struct {
	Idx    atatf.SampleIndex
	Levels Levels
}

func (s Sample) High(c Channel) bool { return s.Levels.High(c) }

// Low reports whether an active-low line is asserted.
func (s Sample) Low(c Channel) bool { return !s.Levels.High(c) }

// Bus8 returns D7..D0.
func (s Sample) Bus8() uint8 {
	return uint8(s.Levels & 0xFF)
}

// Bus16 returns D15..D0. Upper lines read as zero when not bound.
func (s Sample) Bus16() uint16 {
	hi := uint16(s.Levels>>D8) & 0xFF
	return hi<<8 | uint16(s.Bus8())
}

// Addr returns the task-file address DA2..DA0.
func (s Sample) Addr() uint8 {
	return uint8(s.Levels>>DA0) & 0x7
}

// Cursor is a forward-only pull source of samples. Next returns false once
// the capture is exhausted; Err then reports why, nil for a clean end.
type Cursor interface {
	Next() (Sample, bool)
	Channels() ChannelSet
	Err() error
}

// SliceCursor walks an in-memory sample slice.
type SliceCursor struct {
	chans   ChannelSet
	samples []Sample
	pos     int
}

// NewSliceCursor creates a cursor over samples with the given bound channels.
func NewSliceCursor(chans ChannelSet, samples []Sample) *SliceCursor {
	return &SliceCursor{chans: chans, samples: samples}
}

func (c *SliceCursor) Next() (Sample, bool) {
	if c.pos >= len(c.samples) {
		return Sample{}, false
	}
	s := c.samples[c.pos]
	c.pos++
	return s, true
}

func (c *SliceCursor) Channels() ChannelSet { return c.chans }
func (c *SliceCursor) Err() error           { return nil }
