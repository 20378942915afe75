package capture

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"atatf/internal/atatf"
	"atatf/internal/common"
	"atatf/internal/decoder"
	"atatf/internal/sample"
)

func TestParseIni(t *testing.T) {
	const data = `; comment
global = 1
[Capture]
samples = a.csv
  description =  spaced value  
# another comment
[options]
emit_reads=true
`
	ini, err := ParseIni(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseIni: %v", err)
	}
	want := map[string]map[string]string{
		"":        {"global": "1"},
		"capture": {"samples": "a.csv", "description": "spaced value"},
		"options": {"emit_reads": "true"},
	}
	if diff := cmp.Diff(want, ini.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if ini.GetSection("CAPTURE")["samples"] != "a.csv" {
		t.Errorf("GetSection should ignore case")
	}
}

func TestParseIniErrors(t *testing.T) {
	for _, data := range []string{"[capture]\nsamples\n", "= value\n"} {
		_, err := ParseIni(strings.NewReader(data))
		if !errors.Is(err, common.NewError(atatf.ErrSevError, atatf.ErrCaptureParse)) {
			t.Errorf("ParseIni(%q) error = %v, want capture parse error", data, err)
		}
	}
}

func TestLoadTestdata(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "atapi_packet"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Description != "ATAPI PACKET with complete, aborted and truncated CDBs" {
		t.Errorf("Description = %q", c.Description)
	}
	if c.SamplesPath != filepath.Join("testdata", "atapi_packet", "samples.csv") {
		t.Errorf("SamplesPath = %q", c.SamplesPath)
	}
	if !c.CSV.IgnoreUnknown || c.CSV.Rename["WR"] != "DIOW-" || len(c.CSV.Rename) != 14 {
		t.Errorf("CSV options = %+v", c.CSV)
	}
	wantCDB := map[uint8]string{0xC1: "SONY: READ TOC (custom)", 0xC2: "SONY: READ SUBCHANNEL (custom)"}
	if diff := cmp.Diff(wantCDB, c.CustomCDB); diff != "" {
		t.Errorf("custom CDB mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[uint8]string{0x8A: "VENDOR ERASE"}, c.CustomCommands); diff != "" {
		t.Errorf("custom commands mismatch (-want +got):\n%s", diff)
	}

	cur, closer, err := c.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()
	want := sample.RequiredChannels.With(sample.INTRQ)
	if cur.Channels() != want {
		t.Errorf("channels = %v, want %v", cur.Channels(), want)
	}
	n := 0
	for _, ok := cur.Next(); ok; _, ok = cur.Next() {
		n++
	}
	if cur.Err() != nil || n == 0 {
		t.Errorf("read %d samples, err %v", n, cur.Err())
	}
}

func TestApply(t *testing.T) {
	c := &Capture{
		Options: map[string]string{
			"parse_cdb":       "no",
			"IGNORE_DATA":     "false",
			"squelch_dma":     "off",
			"emit_reads":      "1",
			"cdb_length":      "16",
			"watch_cdb_reads": "yes",
			"trace_cdb_bytes": "true",
			"min_pulse_width": "0x4",
		},
		CustomCDB: map[uint8]string{0xC1: "X"},
	}
	cfg := decoder.NewConfig()
	if err := c.Apply(cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := decoder.NewConfig()
	want.ParseCDB = false
	want.Policy.IgnoreData = false
	want.Policy.SquelchDMA = false
	want.Policy.EmitReads = true
	want.CDBLength = 16
	want.WatchCDBReads = true
	want.TraceCDBBytes = true
	want.MinPulseWidth = 4
	want.CustomCDB[0xC1] = "X"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.CustomCDB[0xC2] != "SONY: READ SUB-CHANNEL" {
		t.Errorf("default vendor CDB entries lost: %v", cfg.CustomCDB)
	}
	if c.CustomCDB[0xC2] != "" {
		t.Errorf("Apply modified the capture's own table")
	}
}

func TestApplyOptionsErrors(t *testing.T) {
	tests := []struct {
		opts map[string]string
		msg  string
	}{
		{map[string]string{"bogus": "1"}, `unknown option "bogus"`},
		{map[string]string{"emit_reads": "maybe"}, `emit_reads: bad value "maybe"`},
		{map[string]string{"cdb_length": "twelve"}, "cdb_length: bad value"},
		{map[string]string{"min_pulse_width": "-1"}, "min_pulse_width: bad value"},
	}
	for _, tt := range tests {
		err := ApplyOptions(decoder.NewConfig(), tt.opts)
		if err == nil || !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("ApplyOptions(%v) error = %v, want %q", tt.opts, err, tt.msg)
		}
	}
}

func writeCapture(t *testing.T, ini string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CaptureINIFilename), []byte(ini), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		ini  string
		code atatf.Err
		msg  string
	}{
		{"no samples", "[capture]\ndescription = x\n", atatf.ErrCaptureParse, "samples is required"},
		{"bad channel", "[capture]\nsamples = s.csv\n[channels]\nCH0 = D99\n", atatf.ErrCaptureParse, `unknown channel "D99"`},
		{"bad bool", "[capture]\nsamples = s.csv\nignore_unknown_columns = sometimes\n", atatf.ErrCaptureParse, "not a boolean"},
		{"bad cdb table", "[capture]\nsamples = s.csv\n[cdb]\nXYZ = foo\n", atatf.ErrCmdTableParse, `bad opcode "XYZ"`},
		{"duplicate opcode", "[capture]\nsamples = s.csv\n[commands]\n0x8A = A\n8Ah = B\n", atatf.ErrCmdTableParse, "given twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCapture(t, tt.ini))
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("Load error = %v, want %q", err, tt.msg)
			}
			if !errors.Is(err, common.NewError(atatf.ErrSevError, tt.code)) {
				t.Errorf("error code mismatch: %v", err)
			}
		})
	}

	if _, err := Load(t.TempDir()); !errors.Is(err, common.NewError(atatf.ErrSevError, atatf.ErrFileError)) {
		t.Errorf("missing capture.ini: %v", err)
	}
}

func TestOpenMissingSamples(t *testing.T) {
	c, err := Load(writeCapture(t, "[capture]\nsamples = nothere.csv\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, _, err := c.Open(); !errors.Is(err, common.NewError(atatf.ErrSevError, atatf.ErrFileError)) {
		t.Errorf("Open error = %v, want file error", err)
	}
}
