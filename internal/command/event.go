package command

import (
	"fmt"
	"strings"

	"atatf/internal/cmdtable"
	"atatf/internal/taskfile"
)

// OpPacket is the ATAPI PACKET command. Dispatching it opens a CDB window on
// the Data register.
const OpPacket uint8 = 0xA0

// Mode is the addressing mode selected by Device register bit 6.
type Mode uint8

const (
	ModeCHS Mode = iota
	ModeLBA
)

func (m Mode) String() string {
	if m == ModeLBA {
		return "LBA"
	}
	return "CHS"
}

// Width is the address width of a dispatched command.
type Width uint8

const (
	LBA28 Width = iota
	LBA48
)

func (w Width) String() string {
	if w == LBA48 {
		return "LBA48"
	}
	return "LBA28"
}

// Event is one Command register write together with the parameter block it
// dispatched.
type Event struct {
	Opcode   uint8
	Mnemonic string
	Known    bool // opcode found in a table
	Vendor   bool // opcode in a vendor-specific range
	Device   uint8
	Mode     Mode
	Width    Width

	SectorCount      uint16
	SectorCountValid bool
	LBA              uint64
	LBAValid         bool

	Latches taskfile.Snapshot
}

var lbaRegs = [...]taskfile.Register{taskfile.RegLBA0, taskfile.RegLBA1, taskfile.RegLBA2}

// Build interprets a latch snapshot taken when opcode was written.
//
// The command is 48-bit if any of the sector count or LBA shadows was
// written. A 48-bit field is only reported when both of its halves were
// written; the missing half is never assumed to be zero.
func Build(snap taskfile.Snapshot, opcode uint8, tbl *cmdtable.Table) Event {
	if tbl == nil {
		tbl = cmdtable.Default()
	}
	ev := Event{
		Opcode:  opcode,
		Vendor:  cmdtable.IsVendor(opcode),
		Device:  snap.Device,
		Latches: snap,
	}
	ev.Mnemonic, ev.Known = tbl.Command(opcode)
	if !ev.Known {
		ev.Mnemonic = cmdtable.Unknown(opcode)
	}
	if snap.Device&0x40 != 0 {
		ev.Mode = ModeLBA
	}

	sc := snap.Latch(taskfile.RegSectorCount)
	hob := sc.HOBValid
	for _, r := range lbaRegs {
		hob = hob || snap.Latch(r).HOBValid
	}

	if !hob {
		ev.Width = LBA28
		ev.SectorCount = uint16(sc.Cur)
		ev.SectorCountValid = true
		ev.LBA = uint64(snap.Device&0x0F) << 24
		for i, r := range lbaRegs {
			ev.LBA |= uint64(snap.Latch(r).Cur) << (8 * i)
		}
		ev.LBAValid = true
		return ev
	}

	ev.Width = LBA48
	ev.SectorCount, ev.SectorCountValid = sc.Word()
	ev.LBAValid = true
	for i, r := range lbaRegs {
		l := snap.Latch(r)
		if !l.HOBValid || !l.CurWritten {
			ev.LBAValid = false
		}
		ev.LBA |= uint64(l.Cur)<<(8*i) | uint64(l.HOB)<<(24+8*i)
	}
	if !ev.SectorCountValid {
		ev.SectorCount = 0
	}
	if !ev.LBAValid {
		ev.LBA = 0
	}
	return ev
}

// IsPacket reports whether the event opens an ATAPI CDB window.
func (e Event) IsPacket() bool { return e.Opcode == OpPacket }

// String formats the event as a single dispatch annotation, for example
//
//	CMD 0x24 READ SECTORS EXT  SC=8  LBA28=0x00456789  DEV=0x40(LBA)
func (e Event) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CMD 0x%02X %s", e.Opcode, e.Mnemonic)
	if e.Vendor {
		sb.WriteString(" [vendor]")
	}
	if e.Width == LBA48 {
		sb.WriteString("  SC48=")
		if e.SectorCountValid {
			fmt.Fprintf(&sb, "%d", e.SectorCount)
		} else {
			sb.WriteString("partial")
		}
		sb.WriteString("  LBA48=")
		if e.LBAValid {
			fmt.Fprintf(&sb, "0x%012X", e.LBA)
		} else {
			sb.WriteString("partial")
		}
	} else {
		fmt.Fprintf(&sb, "  SC=%d  LBA28=0x%08X", e.SectorCount, e.LBA)
	}
	fmt.Fprintf(&sb, "  DEV=0x%02X(%s)", e.Device, e.Mode)
	return sb.String()
}
