package printers

import (
	"fmt"
	"io"

	"atatf/internal/atatf"
	"atatf/internal/common"
)

// ItemPrinter is the shared base of the text printers: an output writer, an
// optional message logger that mirrors every line, and mute switches.
type ItemPrinter struct {
	writer       io.Writer
	errLog       common.TraceErrorLog
	muted        bool
	idxPrintMute bool
}

// NewItemPrinter constructs an ItemPrinter using the given io.Writer.
func NewItemPrinter(writer io.Writer) *ItemPrinter {
	return &ItemPrinter{
		writer: writer,
	}
}

// SetMessageLogger sets the optional logger for the printer.
func (p *ItemPrinter) SetMessageLogger(logger common.TraceErrorLog) {
	p.errLog = logger
}

// ItemPrintLine writes the given message to the writer and optionally logs it.
func (p *ItemPrinter) ItemPrintLine(msg string) {
	if p.writer != nil {
		fmt.Fprint(p.writer, msg)
	}
	if p.errLog != nil {
		p.errLog.LogMessage(atatf.ErrSevInfo, msg)
	}
}

// SetMute sets the printer to mute (avoids output).
func (p *ItemPrinter) SetMute(mute bool) { p.muted = mute }

// IsMuted returns true if the printer is muted.
func (p *ItemPrinter) IsMuted() bool { return p.muted }

// MuteIdxPrint mutes or unmutes the sample range prefix of output lines.
func (p *ItemPrinter) MuteIdxPrint(mute bool) { p.idxPrintMute = mute }

// IdxPrintMuted returns whether the sample range prefix is muted.
func (p *ItemPrinter) IdxPrintMuted() bool { return p.idxPrintMute }
