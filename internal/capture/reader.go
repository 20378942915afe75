package capture

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"atatf/internal/atatf"
	"atatf/internal/cmdtable"
	"atatf/internal/common"
	"atatf/internal/decoder"
	"atatf/internal/sample"
)

// Capture is a parsed capture directory: a capture.ini naming a CSV sample
// file, optional decoder options and optional custom mnemonic tables.
type Capture struct {
	Dir         string
	Description string
	SamplesPath string
	CSV         sample.CSVOptions

	// Options holds the [options] entries, unapplied.
	Options map[string]string

	CustomCommands map[uint8]string
	CustomCDB      map[uint8]string
}

// Load reads dir/capture.ini. The sample file is not opened until Open.
func Load(dir string) (*Capture, error) {
	iniPath := filepath.Join(dir, CaptureINIFilename)
	f, err := os.Open(iniPath)
	if err != nil {
		return nil, common.NewErrorMsg(atatf.ErrSevError, atatf.ErrFileError, err.Error())
	}
	defer f.Close()

	ini, err := ParseIni(f)
	if err != nil {
		return nil, err
	}
	return fromIni(dir, ini)
}

func fromIni(dir string, ini *IniFile) (*Capture, error) {
	sec := ini.GetSection(CaptureSectionName)
	if sec == nil || sec[SamplesKey] == "" {
		return nil, captureErr("[%s] %s is required", CaptureSectionName, SamplesKey)
	}
	c := &Capture{
		Dir:         dir,
		Description: sec[DescriptionKey],
		SamplesPath: sec[SamplesKey],
		Options:     ini.GetSection(OptionsSectionName),
	}
	if !filepath.IsAbs(c.SamplesPath) {
		c.SamplesPath = filepath.Join(dir, c.SamplesPath)
	}
	if v, ok := sec[IgnoreUnknownKey]; ok {
		b, err := parseBool(v)
		if err != nil {
			return nil, captureErr("[%s] %s: %v", CaptureSectionName, IgnoreUnknownKey, err)
		}
		c.CSV.IgnoreUnknown = b
	}
	if chans := ini.GetSection(ChannelsSectionName); len(chans) > 0 {
		c.CSV.Rename = make(map[string]string, len(chans))
		for col, name := range chans {
			if _, ok := sample.ParseChannel(name); !ok {
				return nil, captureErr("[%s] %s: unknown channel %q", ChannelsSectionName, col, name)
			}
			c.CSV.Rename[col] = name
		}
	}

	var err error
	if s := ini.GetSection(CommandsSectionName); len(s) > 0 {
		if c.CustomCommands, err = cmdtable.ParseEntries(s); err != nil {
			return nil, err
		}
	}
	if s := ini.GetSection(CDBSectionName); len(s) > 0 {
		if c.CustomCDB, err = cmdtable.ParseEntries(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func captureErr(format string, args ...any) error {
	return common.NewErrorMsg(atatf.ErrSevError, atatf.ErrCaptureParse, fmt.Sprintf(format, args...))
}

// Open opens the sample file. The caller closes the returned io.Closer once
// decoding is done.
func (c *Capture) Open() (*sample.CSVCursor, io.Closer, error) {
	f, err := os.Open(c.SamplesPath)
	if err != nil {
		return nil, nil, common.NewErrorMsg(atatf.ErrSevError, atatf.ErrFileError, err.Error())
	}
	cur, err := sample.NewCSVCursorWith(f, c.CSV)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return cur, f, nil
}

// Apply sets cfg from the capture's options and custom tables. Options the
// file does not name are left as they are; table entries are merged over
// the ones cfg already holds.
func (c *Capture) Apply(cfg *decoder.Config) error {
	if err := ApplyOptions(cfg, c.Options); err != nil {
		return err
	}
	cfg.CustomCommands = mergeTable(cfg.CustomCommands, c.CustomCommands)
	cfg.CustomCDB = mergeTable(cfg.CustomCDB, c.CustomCDB)
	return nil
}

func mergeTable(base, over map[uint8]string) map[uint8]string {
	if len(over) == 0 {
		return base
	}
	m := maps.Clone(base)
	if m == nil {
		m = make(map[uint8]string, len(over))
	}
	maps.Copy(m, over)
	return m
}

// ApplyOptions sets cfg from option = value pairs named as in the
// [options] section. The command line uses the same keys for its overrides.
func ApplyOptions(cfg *decoder.Config, opts map[string]string) error {
	for _, key := range slices.Sorted(maps.Keys(opts)) {
		if err := applyOption(cfg, key, opts[key]); err != nil {
			return err
		}
	}
	return nil
}

func applyOption(cfg *decoder.Config, key, val string) error {
	var flag *bool
	switch strings.ToLower(key) {
	case ParseCDBKey:
		flag = &cfg.ParseCDB
	case IgnoreDataKey:
		flag = &cfg.Policy.IgnoreData
	case SquelchDMAKey:
		flag = &cfg.Policy.SquelchDMA
	case EmitReadsKey:
		flag = &cfg.Policy.EmitReads
	case WatchCDBReadsKey:
		flag = &cfg.WatchCDBReads
	case TraceCDBBytesKey:
		flag = &cfg.TraceCDBBytes
	case CDBLengthKey:
		n, err := strconv.Atoi(val)
		if err != nil {
			return optionErr(key, val)
		}
		cfg.CDBLength = n
		return nil
	case MinPulseWidthKey:
		n, err := strconv.ParseUint(val, 0, 64)
		if err != nil {
			return optionErr(key, val)
		}
		cfg.MinPulseWidth = atatf.SampleIndex(n)
		return nil
	default:
		return captureErr("[%s] unknown option %q", OptionsSectionName, key)
	}

	b, err := parseBool(val)
	if err != nil {
		return optionErr(key, val)
	}
	*flag = b
	return nil
}

func optionErr(key, val string) error {
	return captureErr("[%s] %s: bad value %q", OptionsSectionName, key, val)
}

// parseBool accepts the usual ini spellings of a switch.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", v)
}
