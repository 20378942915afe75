package capture

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"atatf/internal/atatf"
	"atatf/internal/common"
)

// IniFile represents a parsed INI file.
// It maps section names to a map of key-value pairs.
// Global properties (before any section) are stored in the "" (empty string) section.
type IniFile struct {
	Sections map[string]map[string]string
}

// NewIniFile creates a new empty IniFile
func NewIniFile() *IniFile {
	return &IniFile{
		Sections: make(map[string]map[string]string),
	}
}

// ParseIni reads an INI file from an io.Reader. Section names are matched
// case-insensitively; keys keep their case. A line that is neither a
// section, a comment nor a key = value pair is an error.
func ParseIni(r io.Reader) (*IniFile, error) {
	ini := NewIniFile()
	scanner := bufio.NewScanner(r)
	currentSection := ""
	ini.Sections[currentSection] = make(map[string]string)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Ignore empty lines and comments
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			if _, exists := ini.Sections[currentSection]; !exists {
				ini.Sections[currentSection] = make(map[string]string)
			}
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, iniErr(lineNo, "expected key = value, got %q", line)
		}
		ini.Sections[currentSection][key] = strings.TrimSpace(val)
	}
	if err := scanner.Err(); err != nil {
		return nil, iniErr(lineNo, "%v", err)
	}
	return ini, nil
}

func iniErr(line int, format string, args ...any) error {
	return common.NewErrorMsg(atatf.ErrSevError, atatf.ErrCaptureParse,
		fmt.Sprintf("%s line %d: ", CaptureINIFilename, line)+fmt.Sprintf(format, args...))
}

// GetSection returns the key-value map for a given section, or nil if not found
func (ini *IniFile) GetSection(sectionName string) map[string]string {
	return ini.Sections[strings.ToLower(sectionName)]
}
