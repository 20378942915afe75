package decoder

import (
	"fmt"

	"atatf/internal/atapi"
	"atatf/internal/atatf"
	"atatf/internal/cmdtable"
	"atatf/internal/common"
	"atatf/internal/policy"
)

// Config holds the decoder options.
type Config struct {
	ParseCDB      bool // collect and name the CDB following a PACKET command
	Policy        policy.Options
	CDBLength     int  // 12, or 16 for devices with 16-byte packets
	WatchCDBReads bool // count Data reads towards an open CDB
	TraceCDBBytes bool // annotate every CDB byte, not only byte 0

	// MinPulseWidth is passed to the strobe detector.
	MinPulseWidth atatf.SampleIndex

	// Custom tables are merged over the built-in mnemonics. CustomCDB
	// starts out holding the Sony vendor CDB set.
	CustomCommands map[uint8]string
	CustomCDB      map[uint8]string
}

// NewConfig creates a default configuration
func NewConfig() *Config {
	return &Config{
		ParseCDB:      true,
		Policy:        policy.NewOptions(),
		CDBLength:     atapi.CDBLen12,
		MinPulseWidth: 1,
		CustomCDB:     cmdtable.SonyCDB(),
	}
}

// Validate checks option values that cannot be decoded with.
func (c *Config) Validate() error {
	if c.CDBLength != atapi.CDBLen12 && c.CDBLength != atapi.CDBLen16 {
		return common.NewErrorMsg(atatf.ErrSevError, atatf.ErrInvalidParamVal,
			fmt.Sprintf("CDB length %d: must be 12 or 16", c.CDBLength))
	}
	if c.MinPulseWidth == 0 {
		return common.NewErrorMsg(atatf.ErrSevError, atatf.ErrInvalidParamVal,
			"minimum pulse width must be at least 1 sample")
	}
	return nil
}
