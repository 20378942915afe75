package capture

const (
	// CaptureINIFilename is the index file of a capture directory.
	CaptureINIFilename = "capture.ini"

	// [capture]
	CaptureSectionName = "capture"
	SamplesKey         = "samples"
	DescriptionKey     = "description"
	IgnoreUnknownKey   = "ignore_unknown_columns"

	// [channels]: csv column name = channel name
	ChannelsSectionName = "channels"

	// [options]: decoder switches
	OptionsSectionName = "options"
	ParseCDBKey        = "parse_cdb"
	IgnoreDataKey      = "ignore_data"
	SquelchDMAKey      = "squelch_dma"
	EmitReadsKey       = "emit_reads"
	CDBLengthKey       = "cdb_length"
	WatchCDBReadsKey   = "watch_cdb_reads"
	TraceCDBBytesKey   = "trace_cdb_bytes"
	MinPulseWidthKey   = "min_pulse_width"

	// custom mnemonic tables: opcode = mnemonic
	CommandsSectionName = "commands"
	CDBSectionName      = "cdb"
)
