package atatf

// Sample indexing

// SampleIndex is the timestamp of a captured sample, in sample-clock units.
type SampleIndex uint64

const (
	// BadSampleIndex is an invalid sample index value
	BadSampleIndex SampleIndex = ^SampleIndex(0)
)

// General Library Return and Error Codes

// Err represents library error return type
type Err uint32

const (
	OK                    Err = 0
	ErrFail               Err = 1
	ErrNotInit            Err = 2
	ErrInvalidParamVal    Err = 3
	ErrFileError          Err = 4
	ErrAttachTooMany      Err = 5
	ErrAttachCompNotFound Err = 6
	ErrMissingChannel     Err = 7
	ErrCaptureParse       Err = 8
	ErrCmdTableParse      Err = 9
	ErrCDBAborted         Err = 10
	ErrCDBIncomplete      Err = 11
	ErrSinkFatal          Err = 12
	ErrLast               Err = 13
)

// ErrSeverity used to indicate the severity of an error or logger verbosity
type ErrSeverity uint32

const (
	ErrSevNone  ErrSeverity = 0
	ErrSevError ErrSeverity = 1
	ErrSevWarn  ErrSeverity = 2
	ErrSevInfo  ErrSeverity = 3
)

// Decode Datapath

// DatapathResp represents decode datapath responses.
type DatapathResp uint32

const (
	RespCont             DatapathResp = 0
	RespWarnCont         DatapathResp = 1
	RespErrCont          DatapathResp = 2
	RespFatalNotInit     DatapathResp = 3
	RespFatalInvalidOp   DatapathResp = 4
	RespFatalInvalidData DatapathResp = 5
	RespFatalSysErr      DatapathResp = 6
)

func DataRespIsFatal(x DatapathResp) bool     { return x >= RespFatalNotInit }
func DataRespIsWarn(x DatapathResp) bool      { return x == RespWarnCont }
func DataRespIsErr(x DatapathResp) bool       { return x == RespErrCont }
func DataRespIsWarnOrErr(x DatapathResp) bool { return DataRespIsErr(x) || DataRespIsWarn(x) }
func DataRespIsCont(x DatapathResp) bool      { return x < RespFatalNotInit }
