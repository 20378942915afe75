package taskfile

import "fmt"

// Latch is one HOB-latched parameter register: the current value seen by
// register reads plus the high-order shadow written while HOB=1.
type Latch struct {
	Cur        uint8
	CurWritten bool // Cur written since the last reset/consume
	HOB        uint8
	HOBValid   bool // HOB written since the last reset/consume
}

// Word returns HOB:Cur when both halves were written.
func (l Latch) Word() (uint16, bool) {
	return uint16(l.HOB)<<8 | uint16(l.Cur), l.HOBValid && l.CurWritten
}

// DeviceControl is the decoded Device Control register.
type DeviceControl struct {
	HOB  bool // bit 7
	SRST bool // bit 2
	NIEN bool // bit 1
}

// DecodeDevCtl decodes a Device Control byte.
func DecodeDevCtl(v uint8) DeviceControl {
	return DeviceControl{
		HOB:  v&0x80 != 0,
		SRST: v&0x04 != 0,
		NIEN: v&0x02 != 0,
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (d DeviceControl) String() string {
	return fmt.Sprintf("SRST=%d nIEN=%d HOB=%d", b2i(d.SRST), b2i(d.NIEN), b2i(d.HOB))
}

const numParams = 5

func paramIndex(r Register) (int, bool) {
	switch r {
	case RegFeatures:
		return 0, true
	case RegSectorCount:
		return 1, true
	case RegLBA0:
		return 2, true
	case RegLBA1:
		return 3, true
	case RegLBA2:
		return 4, true
	}
	return 0, false
}

// Snapshot is a value copy of the register file taken at command dispatch.
type Snapshot struct {
	Params [numParams]Latch
	Device uint8
	DevCtl DeviceControl
}

// Latch returns the copied latch for a parameter register.
func (s Snapshot) Latch(r Register) Latch {
	if i, ok := paramIndex(r); ok {
		return s.Params[i]
	}
	return Latch{}
}

// File is the host-visible task-file register state. It has exactly one
// owner; consumers get Snapshot copies.
type File struct {
	params [numParams]Latch
	device uint8
	devCtl DeviceControl
}

// NewFile returns a register file in its power-on state.
func NewFile() *File {
	return &File{}
}

// Write applies a register write. hob reports that a parameter write went
// to the high-order shadow.
func (f *File) Write(r Register, v uint8) (hob bool) {
	if i, ok := paramIndex(r); ok {
		l := &f.params[i]
		if f.devCtl.HOB {
			l.HOB = v
			l.HOBValid = true
			return true
		}
		l.Cur = v
		l.CurWritten = true
		return false
	}

	switch r {
	case RegDevice:
		f.device = v
	case RegDevCtl:
		f.devCtl = DecodeDevCtl(v)
		if f.devCtl.SRST {
			f.clearFlags()
		}
	}
	return false
}

// Read returns the value a register read of r would expose from the host
// side shadow. The HOB shadow is never readable directly.
func (f *File) Read(r Register) (uint8, bool) {
	if i, ok := paramIndex(r); ok {
		return f.params[i].Cur, true
	}
	if r == RegDevice {
		return f.device, true
	}
	return 0, false
}

// Field returns current value, shadow value and shadow validity for a
// parameter register.
func (f *File) Field(r Register) (cur, shadow uint8, shadowValid bool) {
	i, ok := paramIndex(r)
	if !ok {
		return 0, 0, false
	}
	l := f.params[i]
	return l.Cur, l.HOB, l.HOBValid
}

// Device returns the last Device register write.
func (f *File) Device() uint8 { return f.device }

// DevCtl returns the decoded Device Control register.
func (f *File) DevCtl() DeviceControl { return f.devCtl }

// Snapshot copies the current register state.
func (f *File) Snapshot() Snapshot {
	return Snapshot{Params: f.params, Device: f.device, DevCtl: f.devCtl}
}

// Consume marks the latched halves used by a dispatched command. Values stay
// readable; only the written/valid flags clear so the next 48-bit command
// must write both halves again.
func (f *File) Consume() {
	f.clearFlags()
}

// Reset models a hardware reset: HOB drops and all halves become unwritten.
func (f *File) Reset() {
	f.devCtl = DeviceControl{}
	f.clearFlags()
}

func (f *File) clearFlags() {
	for i := range f.params {
		f.params[i].CurWritten = false
		f.params[i].HOBValid = false
	}
}
