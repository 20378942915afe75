package lister

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"atatf/internal/capture"
	"atatf/internal/common"
	"atatf/internal/decoder"
	"atatf/internal/printers"
)

// Config mirrors the command line arguments of ata_lister.
type Config struct {
	CaptureDirs []string
	// Options override the capture's [options] section, same keys.
	Options    map[string]string
	NoIdxPrint bool
	Colour     bool
	Stats      bool // per-category counts after each capture
	LogLevel   common.Severity
	Jobs       int // concurrent decodes; 0 runs every capture at once

	OutputWriter io.Writer
	ErrWriter    io.Writer
}

// Run decodes every capture directory and lists the annotations. Captures
// are decoded concurrently; output is written in argument order. A failing
// capture does not stop the others.
func Run(cfg Config) error {
	w := cfg.OutputWriter
	if w == nil {
		w = os.Stdout
	}
	ew := cfg.ErrWriter
	if ew == nil {
		ew = os.Stderr
	}

	fmt.Fprintln(w, "ATA Task-file Lister")
	fmt.Fprintln(w, "--------------------")
	if len(cfg.CaptureDirs) == 0 {
		return errors.New("no capture directories given")
	}

	logger := common.NewStdLoggerWithWriter(ew, ew, cfg.LogLevel)
	outs := make([]bytes.Buffer, len(cfg.CaptureDirs))
	errs := make([]error, len(cfg.CaptureDirs))

	var g errgroup.Group
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}
	for i, dir := range cfg.CaptureDirs {
		g.Go(func() error {
			errs[i] = listCapture(cfg, dir, &outs[i], logger)
			return errs[i]
		})
	}
	_ = g.Wait()

	for i := range outs {
		w.Write(outs[i].Bytes())
		if errs[i] != nil {
			fmt.Fprintf(w, "Error: %v\n", errs[i])
		}
	}
	return errors.Join(errs...)
}

func listCapture(cfg Config, dir string, w io.Writer, logger common.Logger) error {
	fmt.Fprintf(w, "Reading capture from path %s\n", dir)

	capt, err := capture.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to read capture: %w", err)
	}
	if capt.Description != "" {
		fmt.Fprintf(w, "Capture: %s\n", capt.Description)
	}

	dcfg := decoder.NewConfig()
	if err := capt.Apply(dcfg); err != nil {
		return err
	}
	if err := capture.ApplyOptions(dcfg, cfg.Options); err != nil {
		return err
	}
	dec, err := decoder.New(dcfg)
	if err != nil {
		return fmt.Errorf("error creating decoder: %w", err)
	}
	dec.ErrorLogAttachPt().Attach(logger)
	dec.SetErrorLogLevel(cfg.LogLevel.ErrSeverity())

	cur, closer, err := capt.Open()
	if err != nil {
		return fmt.Errorf("failed to open samples: %w", err)
	}
	defer closer.Close()
	fmt.Fprintf(w, "Channels: %s\n", cur.Channels())

	printer := printers.NewAnnotationPrinter(w)
	printer.MuteIdxPrint(cfg.NoIdxPrint)
	printer.SetColour(cfg.Colour)
	if cfg.Stats {
		printer.SetCollectStats()
	}
	dec.AnnotationOutAttachPt().Attach(printer)

	err = dec.Decode(cur)
	st := dec.Stats()
	fmt.Fprintf(w, "Decode stats: accesses=%d dropped=%d unmapped=%d commands=%d cdbs=%d cdb_errors=%d resets=%d annotations=%d filtered=%d\n",
		st.Accesses, st.Dropped, st.Unmapped, st.Commands, st.CDBs, st.CDBErrors, st.BusResets, st.Annotations, st.Filtered)
	if cfg.Stats {
		printer.PrintStats()
	}
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", dir, err)
	}
	return nil
}
