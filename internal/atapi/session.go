package atapi

import (
	"fmt"

	"atatf/internal/command"
	"atatf/internal/taskfile"
)

// CDB lengths accepted by Start.
const (
	CDBLen12 = 12
	CDBLen16 = 16
)

// State of a CDB collection session.
type State uint8

const (
	Idle State = iota
	Collecting
	Complete
	Aborted
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Complete:
		return "complete"
	case Aborted:
		return "aborted"
	}
	return "idle"
}

// Outcome is what a single transition produced.
type Outcome uint8

const (
	OutNone       Outcome = iota // nothing to report
	OutByte                      // a byte was collected
	OutComplete                  // the last expected byte was collected
	OutAborted                   // a non-Data write ended the session early
	OutAbandoned                 // a new PACKET replaced the session
	OutIncomplete                // trace ended mid-session
)

// Result of a session transition.
type Result struct {
	Outcome  Outcome
	Index    int   // position of Byte in the CDB (OutByte, OutComplete)
	Byte     uint8 // collected byte (OutByte, OutComplete)
	Got      int   // bytes collected so far
	Expected int
	Reason   string // cause of an abort
	CDB      []byte // copy of the full CDB (OutComplete)
}

// Collected reports whether the transition stored a CDB byte.
func (r Result) Collected() bool {
	return r.Outcome == OutByte || r.Outcome == OutComplete
}

// Ended reports whether the transition closed the session.
func (r Result) Ended() bool {
	return r.Outcome >= OutComplete
}

// String returns the session-level message for a closing transition.
func (r Result) String() string {
	switch r.Outcome {
	case OutComplete:
		return fmt.Sprintf("CDB complete (%d bytes)", r.Got)
	case OutAborted:
		return fmt.Sprintf("CDB aborted after %d of %d bytes (%s)", r.Got, r.Expected, r.Reason)
	case OutAbandoned:
		return fmt.Sprintf("CDB abandoned after %d of %d bytes (%s)", r.Got, r.Expected, r.Reason)
	case OutIncomplete:
		return fmt.Sprintf("CDB incomplete at end of trace (%d of %d bytes)", r.Got, r.Expected)
	}
	return ""
}

// Session collects the CDB bytes that follow a PACKET command. The zero
// value is an idle session. It is a plain value; copying it copies the
// collected bytes.
type Session struct {
	State    State
	Expected int
	Bytes    [CDBLen16]byte
	N        int
}

// Active reports whether CDB bytes are being collected.
func (s *Session) Active() bool { return s.State == Collecting }

// Start opens a new collection window for expected bytes. Lengths other
// than 16 collect 12. A session still collecting is abandoned and its
// result returned.
func (s *Session) Start(expected int) Result {
	var res Result
	if s.Active() {
		res = s.end(OutAbandoned, Aborted, "new PACKET")
	}
	if expected != CDBLen16 {
		expected = CDBLen12
	}
	*s = Session{State: Collecting, Expected: expected}
	return res
}

// Feed advances the session with one register access. Data writes are
// collected; Data reads only when watchReads is set. Any other register
// write aborts the session, except a PACKET command write which abandons
// it. Reads of other registers (status polling) are ignored.
func (s *Session) Feed(acc taskfile.Access, watchReads bool) Result {
	if !s.Active() {
		return Result{}
	}
	if acc.Reg == taskfile.RegData {
		if acc.IsRead() && !watchReads {
			return Result{}
		}
		return s.collect(acc.Value)
	}
	if !acc.IsWrite() {
		return Result{}
	}
	if acc.Reg == taskfile.RegCommand && acc.Value == command.OpPacket {
		return s.end(OutAbandoned, Aborted, "new PACKET")
	}
	return s.end(OutAborted, Aborted, acc.Reg.String()+" write")
}

// Abort closes an active session for an external reason such as a bus
// reset.
func (s *Session) Abort(reason string) Result {
	if !s.Active() {
		return Result{}
	}
	return s.end(OutAborted, Aborted, reason)
}

// Finish closes the session at end of trace. It reports an incomplete CDB
// at most once.
func (s *Session) Finish() Result {
	if !s.Active() {
		return Result{}
	}
	return s.end(OutIncomplete, Aborted, "")
}

// CDB returns the bytes collected so far.
func (s *Session) CDB() []byte {
	return append([]byte(nil), s.Bytes[:s.N]...)
}

func (s *Session) collect(b uint8) Result {
	res := Result{Outcome: OutByte, Index: s.N, Byte: b, Expected: s.Expected}
	s.Bytes[s.N] = b
	s.N++
	res.Got = s.N
	if s.N >= s.Expected {
		s.State = Complete
		res.Outcome = OutComplete
		res.CDB = s.CDB()
	}
	return res
}

func (s *Session) end(out Outcome, st State, reason string) Result {
	s.State = st
	return Result{Outcome: out, Got: s.N, Expected: s.Expected, Reason: reason}
}
