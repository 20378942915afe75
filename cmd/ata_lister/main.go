package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"atatf/internal/capture"
	"atatf/internal/common"
	"atatf/internal/lister"
)

// dirList collects repeated -capture arguments.
type dirList []string

func (d *dirList) String() string { return strings.Join(*d, ",") }

func (d *dirList) Set(v string) error {
	*d = append(*d, v)
	return nil
}

// decoder options that map straight onto [options] keys in capture.ini
var optionFlags = map[string]string{
	"parse_cdb":   capture.ParseCDBKey,
	"ignore_data": capture.IgnoreDataKey,
	"squelch_dma": capture.SquelchDMAKey,
	"emit_reads":  capture.EmitReadsKey,
	"cdb_reads":   capture.WatchCDBReadsKey,
	"cdb_bytes":   capture.TraceCDBBytesKey,
	"min_pulse":   capture.MinPulseWidthKey,
}

func main() {
	var dirs dirList
	flag.Var(&dirs, "capture", "Path to a capture directory (repeatable)")

	flag.Bool("parse_cdb", true, "Collect and name the ATAPI CDB after a PACKET command")
	flag.Bool("ignore_data", true, "Do not list Data register transfers outside a CDB")
	flag.Bool("squelch_dma", true, "Suppress annotations while DMARQ is asserted")
	flag.Bool("emit_reads", false, "List Status and register reads")
	flag.Bool("cdb_reads", false, "Count Data reads towards an open CDB")
	flag.Bool("cdb_bytes", false, "List every CDB byte, not only the opcode")
	flag.Uint64("min_pulse", 1, "Minimum strobe pulse width in samples")
	cdb16 := flag.Bool("cdb16", false, "Expect 16 byte CDBs")

	logLevel := flag.String("log_level", "error", "Decoder log level: debug, info, warn or error")
	noIdx := flag.Bool("no_idx_print", false, "Do not print sample indexes")
	stats := flag.Bool("stats", false, "Print per-category annotation counts")
	jobs := flag.Int("jobs", 0, "Captures decoded at once (0 for all)")
	colour := flag.String("colour", "auto", "Colour output: auto, always or never")

	flag.Parse()
	dirs = append(dirs, flag.Args()...)

	if len(dirs) == 0 {
		fmt.Println("ATA Task-file Lister : Error: Missing capture directory on -capture option")
		os.Exit(1)
	}

	level, ok := common.ParseSeverity(*logLevel)
	if !ok {
		fmt.Printf("ATA Task-file Lister : Error: unknown log level %q\n", *logLevel)
		os.Exit(1)
	}

	// Only flags given on the command line override the capture's options.
	opts := make(map[string]string)
	flag.Visit(func(f *flag.Flag) {
		if key, ok := optionFlags[f.Name]; ok {
			opts[key] = f.Value.String()
		}
	})
	if *cdb16 {
		opts[capture.CDBLengthKey] = strconv.Itoa(16)
	}

	useColour := false
	switch *colour {
	case "always":
		useColour = true
	case "never":
	case "auto":
		useColour = term.IsTerminal(int(os.Stdout.Fd()))
	default:
		fmt.Printf("ATA Task-file Lister : Error: bad -colour value %q\n", *colour)
		os.Exit(1)
	}

	cfg := lister.Config{
		CaptureDirs:  dirs,
		Options:      opts,
		NoIdxPrint:   *noIdx,
		Colour:       useColour,
		Stats:        *stats,
		LogLevel:     level,
		Jobs:         *jobs,
		OutputWriter: os.Stdout,
		ErrWriter:    os.Stderr,
	}

	if err := lister.Run(cfg); err != nil {
		os.Exit(1)
	}
}
