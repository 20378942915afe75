package decoder

import (
	"fmt"

	"atatf/internal/atatf"
)

// Category classifies an annotation.
type Category uint8

const (
	CatRegisterWrite Category = iota
	CatRegisterRead
	CatStatus
	CatDevCtl
	CatCommand
	CatCDB
	CatCDBByte
	CatCDBComplete
	CatSessionAborted
	CatSessionIncomplete
	CatINTRQ
	CatBusReset
	CatData
	numCategories
)

var categoryNames = [numCategories]string{
	CatRegisterWrite:     "register-write",
	CatRegisterRead:      "register-read",
	CatStatus:            "status",
	CatDevCtl:            "devctl",
	CatCommand:           "command-dispatch",
	CatCDB:               "cdb",
	CatCDBByte:           "cdb-byte",
	CatCDBComplete:       "cdb-complete",
	CatSessionAborted:    "session-aborted",
	CatSessionIncomplete: "session-incomplete",
	CatINTRQ:             "intrq",
	CatBusReset:          "bus-reset",
	CatData:              "data",
}

func (c Category) String() string {
	if c < numCategories {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Categories lists every category in output order.
func Categories() []Category {
	cats := make([]Category, numCategories)
	for i := range cats {
		cats[i] = Category(i)
	}
	return cats
}

// Annotation is one decoded event spanning [Start, End] in sample
// timestamps.
type Annotation struct {
	Start    atatf.SampleIndex
	End      atatf.SampleIndex
	Category Category
	Text     string
}

func (a Annotation) String() string {
	return fmt.Sprintf("%d-%d %s: %s", a.Start, a.End, a.Category, a.Text)
}

// AnnotationSink receives decoded annotations in timestamp order. A fatal
// response stops decoding.
type AnnotationSink interface {
	AnnotationIn(a Annotation) atatf.DatapathResp
}

// Stats counts what a Decode pass saw.
type Stats struct {
	Accesses    int // qualified register accesses
	Dropped     int // strobe pulses discarded as noise
	Unmapped    int // accesses with no register at their address
	Commands    int // Command register writes
	CDBs        int // completed CDBs
	CDBErrors   int // aborted, abandoned or incomplete CDBs
	BusResets   int
	Annotations int // annotations passed to the sink
	Filtered    int // annotations suppressed by policy
}
