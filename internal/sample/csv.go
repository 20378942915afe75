package sample

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"atatf/internal/atatf"
	"atatf/internal/common"
)

// CSVCursor streams samples from a logic-analyser CSV export.
//
// The first row is a header: the first column holds the sample index
// (timestamp), every further column names a Channel. Each data row carries
// the index followed by 0/1 levels. Rows are parsed on demand.
type CSVCursor struct {
	rd      *csv.Reader
	cols    []Channel
	chans   ChannelSet
	lastIdx atatf.SampleIndex
	started bool
	line    int
	err     error
}

// CSVOptions adjust how header columns are bound to channels.
type CSVOptions struct {
	// Rename maps a header column name to the channel name it carries,
	// for exports that label columns by probe ("D0", "CH12", ...).
	Rename map[string]string
	// IgnoreUnknown skips columns that name no channel instead of failing.
	IgnoreUnknown bool
}

// skipCol marks a column that is read but not bound.
const skipCol = NumChannels

// NewCSVCursor reads the header row and binds the channel columns.
func NewCSVCursor(r io.Reader) (*CSVCursor, error) {
	return NewCSVCursorWith(r, CSVOptions{})
}

// NewCSVCursorWith is NewCSVCursor with column binding options.
func NewCSVCursorWith(r io.Reader, opts CSVOptions) (*CSVCursor, error) {
	rd := csv.NewReader(r)
	rd.Comment = '#'
	rd.TrimLeadingSpace = true
	rd.ReuseRecord = true
	rd.FieldsPerRecord = -1

	hdr, err := rd.Read()
	if err != nil {
		return nil, common.NewErrorMsg(atatf.ErrSevError, atatf.ErrCaptureParse, fmt.Sprintf("reading header: %v", err))
	}
	if len(hdr) < 2 {
		return nil, common.NewErrorMsg(atatf.ErrSevError, atatf.ErrCaptureParse, "header needs an index column and at least one channel")
	}

	c := &CSVCursor{rd: rd, line: 1}
	for _, name := range hdr[1:] {
		if to, ok := opts.Rename[strings.TrimSpace(name)]; ok {
			name = to
		}
		ch, ok := ParseChannel(name)
		if !ok && opts.IgnoreUnknown {
			c.cols = append(c.cols, skipCol)
			continue
		}
		if !ok {
			return nil, common.NewErrorMsg(atatf.ErrSevError, atatf.ErrCaptureParse, fmt.Sprintf("unknown channel %q in header", name))
		}
		if c.chans.Has(ch) {
			return nil, common.NewErrorMsg(atatf.ErrSevError, atatf.ErrCaptureParse, fmt.Sprintf("channel %s bound twice", ch))
		}
		c.cols = append(c.cols, ch)
		c.chans = c.chans.With(ch)
	}
	return c, nil
}

func (c *CSVCursor) Channels() ChannelSet { return c.chans }
func (c *CSVCursor) Err() error           { return c.err }

func (c *CSVCursor) Next() (Sample, bool) {
	if c.err != nil {
		return Sample{}, false
	}
	rec, err := c.rd.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			c.err = common.NewErrorMsg(atatf.ErrSevError, atatf.ErrCaptureParse, err.Error())
		}
		return Sample{}, false
	}
	c.line++

	if len(rec) != len(c.cols)+1 {
		return c.fail("expected %d fields, got %d", len(c.cols)+1, len(rec))
	}
	idx, err := strconv.ParseUint(strings.TrimSpace(rec[0]), 0, 64)
	if err != nil {
		return c.fail("bad sample index %q", rec[0])
	}
	if c.started && atatf.SampleIndex(idx) <= c.lastIdx {
		return c.fail("sample index %d not increasing", idx)
	}
	c.started = true
	c.lastIdx = atatf.SampleIndex(idx)

	s := Sample{Idx: atatf.SampleIndex(idx)}
	for i, ch := range c.cols {
		if ch == skipCol {
			continue
		}
		switch strings.TrimSpace(rec[i+1]) {
		case "1", "H", "h":
			s.Levels = s.Levels.Set(ch, true)
		case "0", "L", "l":
		default:
			return c.fail("bad level %q for %s", rec[i+1], ch)
		}
	}
	return s, true
}

func (c *CSVCursor) fail(format string, args ...any) (Sample, bool) {
	c.err = common.NewErrorMsg(atatf.ErrSevError, atatf.ErrCaptureParse,
		fmt.Sprintf("line %d: ", c.line)+fmt.Sprintf(format, args...))
	return Sample{}, false
}
