package taskfile

import (
	"fmt"

	"atatf/internal/atatf"
)

// Bank is the chip-select block an access targets.
type Bank uint8

const (
	BankCS0 Bank = iota // command block
	BankCS1             // control block
)

func (b Bank) String() string {
	if b == BankCS1 {
		return "CS1"
	}
	return "CS0"
}

// Direction of a register access.
type Direction uint8

const (
	DirWrite Direction = iota
	DirRead
)

func (d Direction) String() string {
	if d == DirRead {
		return "R"
	}
	return "W"
}

// Register is a task-file register resolved from bank, address and direction.
type Register uint8

const (
	RegNone Register = iota
	RegData
	RegFeatures
	RegError
	RegSectorCount
	RegLBA0
	RegLBA1
	RegLBA2
	RegDevice
	RegCommand
	RegStatus
	RegDevCtl
	RegAltStatus
	RegDriveAddr
)

var regNames = map[Register]string{
	RegNone:        "none",
	RegData:        "data",
	RegFeatures:    "features",
	RegError:       "error",
	RegSectorCount: "sector_count",
	RegLBA0:        "lba0",
	RegLBA1:        "lba1",
	RegLBA2:        "lba2",
	RegDevice:      "device",
	RegCommand:     "command",
	RegStatus:      "status",
	RegDevCtl:      "devctl",
	RegAltStatus:   "altstatus",
	RegDriveAddr:   "drive_addr",
}

func (r Register) String() string {
	if n, ok := regNames[r]; ok {
		return n
	}
	return fmt.Sprintf("reg(%d)", uint8(r))
}

// IsParam reports whether r is one of the HOB-latched parameter registers.
func (r Register) IsParam() bool {
	return r >= RegFeatures && r <= RegLBA2 && r != RegError
}

// Resolve maps a bus cycle onto the register it addresses. Addresses with no
// register in the selected block resolve to RegNone.
func Resolve(bank Bank, addr uint8, dir Direction) Register {
	wr := dir == DirWrite
	if bank == BankCS1 {
		switch addr & 0x7 {
		case 6:
			if wr {
				return RegDevCtl
			}
			return RegAltStatus
		case 7:
			return RegDriveAddr
		}
		return RegNone
	}

	switch addr & 0x7 {
	case 0:
		return RegData
	case 1:
		if wr {
			return RegFeatures
		}
		return RegError
	case 2:
		return RegSectorCount
	case 3:
		return RegLBA0
	case 4:
		return RegLBA1
	case 5:
		return RegLBA2
	case 6:
		return RegDevice
	default:
		if wr {
			return RegCommand
		}
		return RegStatus
	}
}

// Location is the inverse of Resolve: the bank and address of r.
func Location(r Register) (Bank, uint8) {
	switch r {
	case RegData:
		return BankCS0, 0
	case RegFeatures, RegError:
		return BankCS0, 1
	case RegSectorCount:
		return BankCS0, 2
	case RegLBA0:
		return BankCS0, 3
	case RegLBA1:
		return BankCS0, 4
	case RegLBA2:
		return BankCS0, 5
	case RegDevice:
		return BankCS0, 6
	case RegCommand, RegStatus:
		return BankCS0, 7
	case RegDevCtl, RegAltStatus:
		return BankCS1, 6
	case RegDriveAddr:
		return BankCS1, 7
	}
	return BankCS1, 0
}

// Access is one qualified register read or write on the bus.
type Access struct {
	Reg     Register
	Bank    Bank
	Addr    uint8
	Dir     Direction
	Value   uint8  // D7..D0
	Value16 uint16 // D15..D0, upper byte zero when D8-15 not bound
	Start   atatf.SampleIndex
	End     atatf.SampleIndex

	// optional line levels sampled with the data
	HasDMARQ bool
	DMARQ    bool
	HasINTRQ bool
	INTRQ    bool
}

func (a Access) IsWrite() bool { return a.Dir == DirWrite }
func (a Access) IsRead() bool  { return a.Dir == DirRead }

func (a Access) String() string {
	return fmt.Sprintf("%s %s[%d] %s 0x%02X @%d-%d", a.Bank, a.Reg, a.Addr, a.Dir, a.Value, a.Start, a.End)
}
