// Package policy decides which decoded events reach the annotation output.
// Predicates here never affect decode state: the decoder updates the
// register file and CDB session first and asks Allow afterwards.
package policy

// Options are the user-facing filter switches.
type Options struct {
	IgnoreData bool // hide raw Data register accesses outside a CDB
	SquelchDMA bool // hide bus activity while DMARQ is asserted
	EmitReads  bool // annotate register reads, status included
}

// NewOptions returns the default filter settings.
func NewOptions() Options {
	return Options{IgnoreData: true, SquelchDMA: true}
}

// Kind groups events by how they are filtered.
type Kind uint8

const (
	KindWrite   Kind = iota // register, device control and command writes
	KindRead                // register reads, including status and INTRQ observations
	KindData                // raw Data register access
	KindSession             // CDB bytes and CDB session results
	KindBus                 // bus level events not tied to an access
)

// Event is the filter view of one candidate annotation.
type Event struct {
	Kind          Kind
	SessionActive bool // a CDB was being collected when the access happened
	HasDMARQ      bool
	DMARQ         bool
}

// Allow reports whether ev should be emitted under opts.
func Allow(ev Event, opts Options) bool {
	if ev.Kind == KindBus {
		return true
	}
	if Squelched(ev, opts) {
		return false
	}
	switch ev.Kind {
	case KindRead:
		return opts.EmitReads
	case KindData:
		return ev.SessionActive || !opts.IgnoreData
	}
	return true
}

// Squelched reports whether ev falls inside a DMA phase that opts hides.
func Squelched(ev Event, opts Options) bool {
	return opts.SquelchDMA && ev.HasDMARQ && ev.DMARQ
}
