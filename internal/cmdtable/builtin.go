package cmdtable

import "maps"

// ataCommands is the built-in ATA/ATAPI command opcode table.
var ataCommands = map[uint8]string{
	0x00: "NOP",
	0x06: "DATA SET MANAGEMENT",
	0x07: "DATA SET MANAGEMENT XL",
	0x08: "DEVICE RESET",
	0x0B: "REQUEST SENSE DATA EXT",

	0x10: "RECALIBRATE",
	0x20: "READ SECTORS",
	0x21: "READ SECTORS (no retry)",
	0x22: "READ LONG",
	0x23: "READ LONG (no retry)",
	0x24: "READ SECTORS EXT",
	0x25: "READ DMA EXT",
	0x26: "READ DMA QUEUED EXT",
	0x27: "READ NATIVE MAX ADDRESS EXT",
	0x29: "READ MULTIPLE EXT",
	0x2A: "READ STREAM DMA EXT",
	0x2B: "READ STREAM EXT",
	0x2F: "READ LOG EXT",

	0x30: "WRITE SECTORS",
	0x31: "WRITE SECTORS (no retry)",
	0x32: "WRITE LONG",
	0x33: "WRITE LONG (no retry)",
	0x34: "WRITE SECTORS EXT",
	0x35: "WRITE DMA EXT",
	0x36: "WRITE DMA QUEUED EXT",
	0x39: "WRITE MULTIPLE EXT",
	0x3A: "WRITE STREAM DMA EXT",
	0x3B: "WRITE STREAM EXT",
	0x3C: "WRITE VERIFY",
	0x3D: "WRITE DMA FUA EXT",
	0x3E: "WRITE DMA QUEUED FUA EXT",
	0x3F: "WRITE LOG EXT",

	0x40: "READ VERIFY SECTORS",
	0x41: "READ VERIFY SECTORS (no retry)",
	0x42: "READ VERIFY SECTORS EXT",
	0x44: "ZERO EXT",
	0x45: "WRITE UNCORRECTABLE EXT",
	0x47: "READ LOG DMA EXT",
	0x4A: "ZAC MANAGEMENT IN",

	0x50: "FORMAT TRACK",
	0x51: "CONFIGURE STREAM",
	0x5B: "TRUSTED NON-DATA",
	0x5C: "TRUSTED RECEIVE",
	0x5D: "TRUSTED RECEIVE DMA",
	0x5E: "TRUSTED SEND",
	0x5F: "TRUSTED SEND DMA",

	0x60: "READ FPDMA QUEUED",
	0x61: "WRITE FPDMA QUEUED",
	0x63: "NCQ NON-DATA",
	0x64: "SEND FPDMA QUEUED",
	0x65: "RECEIVE FPDMA QUEUED",

	0x70: "SEEK",
	0x77: "SET DATE & TIME EXT",
	0x78: "ACCESSIBLE MAX ADDRESS CONFIGURATION",
	0x7C: "REMOVE ELEMENT AND TRUNCATE",
	0x7D: "RESTORE ELEMENTS AND REBUILD",

	0x87: "CFA TRANSLATE SECTOR",

	0x90: "EXECUTE DEVICE DIAGNOSTIC",
	0x91: "INITIALIZE DEVICE PARAMETERS",
	0x92: "DOWNLOAD MICROCODE",
	0x93: "DOWNLOAD MICROCODE DMA",
	0x9F: "ZAC MANAGEMENT OUT",

	0xA0: "PACKET",
	0xA1: "IDENTIFY PACKET DEVICE",
	0xA2: "SERVICE",

	0xB0: "SMART",
	0xB1: "DEVICE CONFIGURATION OVERLAY",
	0xB2: "SET SECTOR CONFIGURATION EXT",
	0xB4: "SANITIZE DEVICE",
	0xB6: "NV CACHE",

	0xC0: "CFA ERASE SECTORS",
	0xC4: "READ MULTIPLE",
	0xC5: "WRITE MULTIPLE",
	0xC6: "SET MULTIPLE MODE",
	0xC7: "READ DMA QUEUED",
	0xC8: "READ DMA",
	0xC9: "READ DMA (no retry)",
	0xCA: "WRITE DMA",
	0xCB: "WRITE DMA (no retry)",
	0xCC: "WRITE DMA QUEUED",
	0xCD: "CFA WRITE MULTIPLE WITHOUT ERASE",
	0xCE: "WRITE MULTIPLE FUA EXT",

	0xD1: "CHECK MEDIA CARD TYPE",
	0xDA: "GET MEDIA STATUS",
	0xDB: "ACKNOWLEDGE MEDIA CHANGE",
	0xDE: "MEDIA LOCK",
	0xDF: "MEDIA UNLOCK",

	0xE0: "STANDBY IMMEDIATE",
	0xE1: "IDLE IMMEDIATE",
	0xE2: "STANDBY",
	0xE3: "IDLE",
	0xE4: "READ BUFFER",
	0xE5: "CHECK POWER MODE",
	0xE6: "SLEEP",
	0xE7: "FLUSH CACHE",
	0xE8: "WRITE BUFFER",
	0xE9: "READ BUFFER DMA",
	0xEA: "FLUSH CACHE EXT",
	0xEB: "WRITE BUFFER DMA",
	0xEC: "IDENTIFY DEVICE",
	0xED: "MEDIA EJECT",
	0xEE: "IDENTIFY DEVICE DMA",
	0xEF: "SET FEATURES",

	0xF1: "SECURITY SET PASSWORD",
	0xF2: "SECURITY UNLOCK",
	0xF3: "SECURITY ERASE PREPARE",
	0xF4: "SECURITY ERASE UNIT",
	0xF5: "SECURITY FREEZE LOCK",
	0xF6: "SECURITY DISABLE PASSWORD",
	0xF8: "READ NATIVE MAX ADDRESS",
	0xF9: "SET MAX ADDRESS",
}

// atapiCDB holds common ATAPI/SCSI CDB opcodes (MMC subset).
var atapiCDB = map[uint8]string{
	0x00: "TEST UNIT READY",
	0x03: "REQUEST SENSE",
	0x12: "INQUIRY",
	0x1A: "MODE SENSE(6)",
	0x1B: "START STOP UNIT",
	0x1E: "PREVENT ALLOW MEDIUM REMOVAL",
	0x23: "READ FORMAT CAPACITIES",
	0x25: "READ CAPACITY(10)",
	0x28: "READ(10)",
	0x2A: "WRITE(10)",
	0x2B: "SEEK(10)",
	0x2F: "VERIFY(10)",
	0x35: "SYNCHRONIZE CACHE(10)",
	0x42: "READ SUB-CHANNEL",
	0x43: "READ TOC/PMA/ATIP",
	0x44: "READ HEADER",
	0x45: "PLAY AUDIO(10)",
	0x46: "GET CONFIGURATION",
	0x47: "PLAY AUDIO MSF",
	0x48: "PLAY AUDIO TRACK/INDEX",
	0x4A: "GET EVENT STATUS NOTIFICATION",
	0x4B: "PAUSE/RESUME",
	0x51: "READ DISC INFORMATION",
	0x55: "MODE SELECT(10)",
	0x5A: "MODE SENSE(10)",
	0xA1: "BLANK (MMC)",
	0xA8: "READ(12)",
	0xAA: "WRITE(12)",
	0xBB: "SET CD SPEED (MMC)",
	0xBE: "READ CD",
}

// sonyCDB is the classic Sony vendor CDB set, offered as a ready-made
// custom CDB table.
var sonyCDB = map[uint8]string{
	0xC1: "SONY: READ TOC",
	0xC2: "SONY: READ SUB-CHANNEL",
	0xC3: "SONY: READ HEADER",
	0xC4: "SONY: PLAYBACK STATUS",
	0xC5: "SONY: PAUSE",
	0xC6: "SONY: PLAY TRACK",
	0xC7: "SONY: PLAY MSF",
	0xC8: "SONY: PLAY AUDIO (LBA+len)",
	0xC9: "SONY: PLAYBACK CONTROL",
}

type opRange struct{ lo, hi uint8 }

// vendorRanges are the ATA opcode ranges reserved for vendor use. Only used
// to label unknown opcodes.
var vendorRanges = []opRange{
	{0x80, 0x8F},
	{0x9A, 0x9E},
	{0xC1, 0xC3},
	{0xF0, 0xF0},
	{0xFA, 0xFF},
}

// SonyCDB returns a copy of the Sony vendor CDB table.
func SonyCDB() map[uint8]string {
	return maps.Clone(sonyCDB)
}

// IsVendor reports whether op lies in a vendor-specific ATA opcode range.
func IsVendor(op uint8) bool {
	for _, r := range vendorRanges {
		if op >= r.lo && op <= r.hi {
			return true
		}
	}
	return false
}
