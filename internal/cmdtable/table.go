package cmdtable

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"atatf/internal/atatf"
	"atatf/internal/common"
)

// Table resolves ATA command and ATAPI CDB opcodes to mnemonics. Custom
// entries are merged over the built-in ones at construction, so lookup is a
// single map read. A Table is read-only after New.
type Table struct {
	ata map[uint8]string
	cdb map[uint8]string
}

// New merges the custom tables over the built-in ones. A blank or
// non-printable mnemonic is a configuration error.
func New(customATA, customCDB map[uint8]string) (*Table, error) {
	if err := validate("command", customATA); err != nil {
		return nil, err
	}
	if err := validate("cdb", customCDB); err != nil {
		return nil, err
	}
	t := &Table{
		ata: maps.Clone(ataCommands),
		cdb: maps.Clone(atapiCDB),
	}
	maps.Copy(t.ata, customATA)
	maps.Copy(t.cdb, customCDB)
	return t, nil
}

// Default returns a table holding only the built-in entries.
func Default() *Table {
	t, _ := New(nil, nil)
	return t
}

func validate(kind string, m map[uint8]string) error {
	for _, op := range slices.Sorted(maps.Keys(m)) {
		name := m[op]
		if strings.TrimSpace(name) == "" {
			return tableErr("%s 0x%02X: empty mnemonic", kind, op)
		}
		if strings.IndexFunc(name, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0 {
			return tableErr("%s 0x%02X: mnemonic %q has non-printable characters", kind, op, name)
		}
	}
	return nil
}

func tableErr(format string, args ...any) error {
	return common.NewErrorMsg(atatf.ErrSevError, atatf.ErrCmdTableParse, fmt.Sprintf(format, args...))
}

// Command looks up an ATA command opcode.
func (t *Table) Command(op uint8) (string, bool) {
	name, ok := t.ata[op]
	return name, ok
}

// CommandName returns the mnemonic for op, or UNKNOWN(0xXX).
func (t *Table) CommandName(op uint8) string {
	if name, ok := t.ata[op]; ok {
		return name
	}
	return Unknown(op)
}

// CDB looks up an ATAPI CDB opcode (CDB byte 0).
func (t *Table) CDB(op uint8) (string, bool) {
	name, ok := t.cdb[op]
	return name, ok
}

// CDBName returns the CDB mnemonic for op, or UNKNOWN(0xXX).
func (t *Table) CDBName(op uint8) string {
	if name, ok := t.cdb[op]; ok {
		return name
	}
	return Unknown(op)
}

// Unknown is the label used for opcodes missing from every table.
func Unknown(op uint8) string {
	return fmt.Sprintf("UNKNOWN(0x%02X)", op)
}

// ParseEntries converts an ini section of "opcode = mnemonic" lines into a
// custom table. Opcodes are hex, written 0xC1, C1h or C1. The same opcode
// written two ways is rejected.
func ParseEntries(section map[string]string) (map[uint8]string, error) {
	m := make(map[uint8]string, len(section))
	seen := make(map[uint8]string, len(section))
	for _, key := range slices.Sorted(maps.Keys(section)) {
		op, err := parseOpcode(key)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[op]; dup {
			return nil, tableErr("opcode 0x%02X given twice (%q and %q)", op, prev, key)
		}
		seen[op] = key
		m[op] = strings.Trim(strings.TrimSpace(section[key]), `"`)
	}
	if err := validate("entry", m); err != nil {
		return nil, err
	}
	return m, nil
}

func parseOpcode(key string) (uint8, error) {
	s := strings.ToLower(strings.TrimSpace(key))
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimSuffix(s, "h")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil || s == "" {
		return 0, tableErr("bad opcode %q: want a hex byte", key)
	}
	return uint8(v), nil
}
