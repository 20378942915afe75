package strobe

import "atatf/internal/atatf"

// Config holds the tunables of the strobe edge detector.
type Config struct {
	// MinPulseWidth is the shortest strobe pulse, in sample timestamp
	// units from asserting to deasserting edge, accepted as a bus cycle.
	// Shorter pulses are treated as ringing and dropped.
	MinPulseWidth atatf.SampleIndex
}

// NewConfig creates a default configuration
func NewConfig() Config {
	return Config{MinPulseWidth: 1}
}
