package sample

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"atatf/internal/atatf"
	"atatf/internal/common"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		name string
		want Channel
		ok   bool
	}{
		{"D0", D0, true},
		{"diow", DIOW, true},
		{"DIOR-", DIOR, true},
		{"cs1#", CS1, true},
		{"RESET-", RESET, true},
		{"d15", D15, true},
		{"DA3", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseChannel(tt.name)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseChannel(%q) = %v,%v want %v,%v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
	if DMARQ.String() != "DMARQ" || Channel(99).String() != "CH99" {
		t.Errorf("unexpected channel names %q %q", DMARQ, Channel(99))
	}
}

func TestChannelSetValidate(t *testing.T) {
	if err := RequiredChannels.Validate(); err != nil {
		t.Fatalf("required set should validate: %v", err)
	}
	if RequiredChannels.Has(INTRQ) {
		t.Errorf("INTRQ is optional")
	}

	err := RequiredChannels.Without(DIOW).Without(DA1).Validate()
	if err == nil {
		t.Fatal("expected missing channel error")
	}
	if !errors.Is(err, common.NewError(atatf.ErrSevError, atatf.ErrMissingChannel)) {
		t.Errorf("expected ErrMissingChannel, got %v", err)
	}
	if !strings.Contains(err.Error(), "DIOW-, DA1") {
		t.Errorf("error should name missing channels, got %q", err)
	}
}

func TestSampleAccessors(t *testing.T) {
	var l Levels
	for _, c := range []Channel{D0, D2, D7, DA0, DA2, D8, D15} {
		l = l.Set(c, true)
	}
	s := Sample{Idx: 3, Levels: l}
	if s.Bus8() != 0x85 {
		t.Errorf("Bus8 = 0x%02X, want 0x85", s.Bus8())
	}
	if s.Bus16() != 0x8185 {
		t.Errorf("Bus16 = 0x%04X, want 0x8185", s.Bus16())
	}
	if s.Addr() != 5 {
		t.Errorf("Addr = %d, want 5", s.Addr())
	}
	if !s.Low(DIOW) || s.Low(D0) {
		t.Errorf("Low() wrong")
	}
	if s.Levels.Set(D0, false).High(D0) {
		t.Errorf("Set false did not clear D0")
	}
}

func TestSliceCursor(t *testing.T) {
	in := []Sample{{Idx: 0}, {Idx: 5, Levels: 1}}
	c := NewSliceCursor(RequiredChannels, in)
	var got []Sample
	for s, ok := c.Next(); ok; s, ok = c.Next() {
		got = append(got, s)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
	if c.Channels() != RequiredChannels || c.Err() != nil {
		t.Errorf("unexpected cursor state")
	}
}

func TestCSVCursor(t *testing.T) {
	const data = `index,D0,D1,DIOW-,DA0,INTRQ
# comment line
0,1,0,1,0,0
4,0,1,0,1,1
10,H,L,1,0,0
`
	c, err := NewCSVCursor(strings.NewReader(data))
	if err != nil {
		t.Fatalf("NewCSVCursor: %v", err)
	}
	wantSet := ChannelSet(0).With(D0).With(D1).With(DIOW).With(DA0).With(INTRQ)
	if c.Channels() != wantSet {
		t.Errorf("channels = %v, want %v", c.Channels(), wantSet)
	}

	var got []Sample
	for s, ok := c.Next(); ok; s, ok = c.Next() {
		got = append(got, s)
	}
	if c.Err() != nil {
		t.Fatalf("unexpected error: %v", c.Err())
	}
	want := []Sample{
		{Idx: 0, Levels: Levels(0).Set(D0, true).Set(DIOW, true)},
		{Idx: 4, Levels: Levels(0).Set(D1, true).Set(DA0, true).Set(INTRQ, true)},
		{Idx: 10, Levels: Levels(0).Set(D0, true).Set(DIOW, true)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVCursorErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		hdrErr  bool
		wantMsg string
	}{
		{"empty", "", true, "reading header"},
		{"unknown channel", "idx,D0,FOO\n", true, `unknown channel "FOO"`},
		{"duplicate channel", "idx,D0,d0\n", true, "bound twice"},
		{"short row", "idx,D0,D1\n0,1\n", false, "expected 3 fields"},
		{"bad level", "idx,D0\n0,x\n", false, `bad level "x"`},
		{"bad index", "idx,D0\nzz,1\n", false, "bad sample index"},
		{"not increasing", "idx,D0\n5,1\n5,0\n", false, "not increasing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCSVCursor(strings.NewReader(tt.data))
			if tt.hdrErr {
				if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
					t.Fatalf("expected header error containing %q, got %v", tt.wantMsg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected header error: %v", err)
			}
			for _, ok := c.Next(); ok; _, ok = c.Next() {
			}
			if c.Err() == nil || !strings.Contains(c.Err().Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %v", tt.wantMsg, c.Err())
			}
			if !errors.Is(c.Err(), common.NewError(atatf.ErrSevError, atatf.ErrCaptureParse)) {
				t.Errorf("expected ErrCaptureParse code")
			}
		})
	}
}

func TestCSVCursorRenameAndSkip(t *testing.T) {
	const data = `Time,CH0,CH1,Trigger,RST
0,1,0,1,1
1,0,1,0,0
`
	c, err := NewCSVCursorWith(strings.NewReader(data), CSVOptions{
		Rename:        map[string]string{"CH0": "D0", "CH1": "DIOR-", "RST": "RESET-"},
		IgnoreUnknown: true,
	})
	if err != nil {
		t.Fatalf("NewCSVCursorWith: %v", err)
	}
	wantSet := ChannelSet(0).With(D0).With(DIOR).With(RESET)
	if c.Channels() != wantSet {
		t.Errorf("channels = %v, want %v", c.Channels(), wantSet)
	}
	var got []Sample
	for s, ok := c.Next(); ok; s, ok = c.Next() {
		got = append(got, s)
	}
	want := []Sample{
		{Idx: 0, Levels: Levels(0).Set(D0, true).Set(RESET, true)},
		{Idx: 1, Levels: Levels(0).Set(DIOR, true)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}
