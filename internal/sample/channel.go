package sample

import (
	"fmt"
	"strings"

	"atatf/internal/atatf"
	"atatf/internal/common"
)

// Channel identifies a logical PATA bus line.
type Channel uint8

const (
	D0 Channel = iota
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	DIOW // DIOW- write strobe, active low
	DIOR // DIOR- read strobe, active low
	CS0  // CS0- command block select, active low
	CS1  // CS1- control block select, active low
	DA0
	DA1
	DA2

	/* optional lines */
	INTRQ
	RESET // RESET-, active low
	IORDY
	DMARQ
	DMACK  // DMACK-, active low
	DASP   // DASP-, active low
	PDIAG  // PDIAG-, active low
	IOCS16 // IOCS16-, active low
	D8
	D9
	D10
	D11
	D12
	D13
	D14
	D15

	NumChannels
)

var channelNames = [NumChannels]string{
	"D0", "D1", "D2", "D3", "D4", "D5", "D6", "D7",
	"DIOW-", "DIOR-", "CS0-", "CS1-", "DA0", "DA1", "DA2",
	"INTRQ", "RESET-", "IORDY", "DMARQ", "DMACK-", "DASP-", "PDIAG-", "IOCS16-",
	"D8", "D9", "D10", "D11", "D12", "D13", "D14", "D15",
}

func (c Channel) String() string {
	if c < NumChannels {
		return channelNames[c]
	}
	return fmt.Sprintf("CH%d", uint8(c))
}

// ParseChannel looks up a channel by name. Case and a trailing active-low
// '-' or '#' marker are ignored, so "diow", "DIOW-" and "DIOW#" all match.
func ParseChannel(name string) (Channel, bool) {
	key := normName(name)
	for i, n := range channelNames {
		if normName(n) == key {
			return Channel(i), true
		}
	}
	return 0, false
}

func normName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	return strings.TrimRight(name, "-#")
}

// ChannelSet is a bit set of the channels bound in a capture.
type ChannelSet uint32

// RequiredChannels are the lines the decoder cannot run without.
const RequiredChannels ChannelSet = 1<<(DA2+1) - 1

// AllChannels has every known channel bound.
const AllChannels ChannelSet = 1<<NumChannels - 1

func (s ChannelSet) Has(c Channel) bool           { return s&(1<<c) != 0 }
func (s ChannelSet) With(c Channel) ChannelSet    { return s | 1<<c }
func (s ChannelSet) Without(c Channel) ChannelSet { return s &^ (1 << c) }

// Validate checks all required channels are present.
func (s ChannelSet) Validate() error {
	var missing []string
	for c := D0; c <= DA2; c++ {
		if !s.Has(c) {
			missing = append(missing, c.String())
		}
	}
	if len(missing) > 0 {
		return common.NewErrorMsg(atatf.ErrSevError, atatf.ErrMissingChannel,
			"missing required channels: "+strings.Join(missing, ", "))
	}
	return nil
}

func (s ChannelSet) String() string {
	var names []string
	for c := Channel(0); c < NumChannels; c++ {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return strings.Join(names, ",")
}
