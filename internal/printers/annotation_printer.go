package printers

import (
	"fmt"
	"io"
	"strings"

	"atatf/internal/atatf"
	"atatf/internal/decoder"
)

// ANSI colours per category, used when colour output is on.
var categoryColour = map[decoder.Category]string{
	decoder.CatRegisterWrite:     "\x1b[36m",
	decoder.CatRegisterRead:      "\x1b[34m",
	decoder.CatStatus:            "\x1b[34m",
	decoder.CatDevCtl:            "\x1b[35m",
	decoder.CatCommand:           "\x1b[1;33m",
	decoder.CatCDB:               "\x1b[1;32m",
	decoder.CatCDBByte:           "\x1b[32m",
	decoder.CatCDBComplete:       "\x1b[32m",
	decoder.CatSessionAborted:    "\x1b[1;31m",
	decoder.CatSessionIncomplete: "\x1b[31m",
	decoder.CatINTRQ:             "\x1b[35m",
	decoder.CatBusReset:          "\x1b[1;31m",
}

const colourReset = "\x1b[0m"

// AnnotationPrinter writes one line per annotation:
//
//	Idx:37-40; command-dispatch; CMD 0x24 READ SECTORS EXT  SC=8  ...
type AnnotationPrinter struct {
	ItemPrinter
	colour       bool
	collectStats bool
	counts       map[decoder.Category]int
}

// NewAnnotationPrinter creates a printer writing to writer.
func NewAnnotationPrinter(writer io.Writer) *AnnotationPrinter {
	return &AnnotationPrinter{
		ItemPrinter: *NewItemPrinter(writer),
		counts:      make(map[decoder.Category]int),
	}
}

// SetColour turns ANSI colouring of the category field on or off.
func (p *AnnotationPrinter) SetColour(on bool) { p.colour = on }

// SetCollectStats turns on per-category counting.
func (p *AnnotationPrinter) SetCollectStats() { p.collectStats = true }

// AnnotationIn implements decoder.AnnotationSink.
func (p *AnnotationPrinter) AnnotationIn(a decoder.Annotation) atatf.DatapathResp {
	if p.collectStats {
		p.counts[a.Category]++
	}
	if p.IsMuted() {
		return atatf.RespCont
	}

	var sb strings.Builder
	if !p.IdxPrintMuted() {
		fmt.Fprintf(&sb, "Idx:%d-%d; ", a.Start, a.End)
	}
	if c, ok := categoryColour[a.Category]; ok && p.colour {
		fmt.Fprintf(&sb, "%s%s%s; ", c, a.Category, colourReset)
	} else {
		fmt.Fprintf(&sb, "%s; ", a.Category)
	}
	sb.WriteString(a.Text)
	sb.WriteString("\n")

	p.ItemPrintLine(sb.String())
	return atatf.RespCont
}

// Count returns the number of annotations seen in cat.
func (p *AnnotationPrinter) Count(cat decoder.Category) int { return p.counts[cat] }

// PrintStats outputs per-category counts.
func (p *AnnotationPrinter) PrintStats() {
	var sb strings.Builder

	sb.WriteString("Annotations processed:-\n")
	for _, cat := range decoder.Categories() {
		fmt.Fprintf(&sb, "%s : %d\n", cat, p.counts[cat])
	}
	sb.WriteString("\n")

	p.ItemPrintLine(sb.String())
}
