package common

import (
	"fmt"
	"strings"

	"atatf/internal/atatf"
)

// Error represents the library error object.
type Error struct {
	Code    atatf.Err
	Sev     atatf.ErrSeverity
	Idx     atatf.SampleIndex
	Message string
}

func NewError(sev atatf.ErrSeverity, code atatf.Err) *Error {
	return &Error{
		Code: code,
		Sev:  sev,
		Idx:  atatf.BadSampleIndex,
	}
}

func NewErrorMsg(sev atatf.ErrSeverity, code atatf.Err, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Idx:     atatf.BadSampleIndex,
		Message: msg,
	}
}

func NewErrorWithIdxMsg(sev atatf.ErrSeverity, code atatf.Err, idx atatf.SampleIndex, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Idx:     idx,
		Message: msg,
	}
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	switch e.Sev {
	case atatf.ErrSevError:
		sb.WriteString("ERROR:")
	case atatf.ErrSevWarn:
		sb.WriteString("WARN :")
	case atatf.ErrSevInfo:
		sb.WriteString("INFO :")
	default:
		return "LIBRARY INTERNAL ERROR: Invalid Error Object"
	}

	sb.WriteString(fmt.Sprintf("0x%04x ", e.Code))

	if desc, ok := errorCodeDesc[e.Code]; ok {
		sb.WriteString(fmt.Sprintf("(%s) [%s]; ", desc.name, desc.msg))
	} else {
		sb.WriteString("(unknown); ")
	}

	if e.Idx != atatf.BadSampleIndex {
		sb.WriteString(fmt.Sprintf("Idx=%d; ", e.Idx))
	}

	sb.WriteString(e.Message)
	return sb.String()
}

// Is matches errors by code so callers can use errors.Is against a bare
// NewError(sev, code) value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// DataRespStr returns a string representation for an atatf.DatapathResp value.
func DataRespStr(resp atatf.DatapathResp) string {
	switch resp {
	case atatf.RespCont:
		return "RESP_CONT: Continue processing."
	case atatf.RespWarnCont:
		return "RESP_WARN_CONT: Continue processing -> a component logged a warning."
	case atatf.RespErrCont:
		return "RESP_ERR_CONT: Continue processing -> a component logged an error."
	case atatf.RespFatalNotInit:
		return "RESP_FATAL_NOT_INIT: Processing Fatal Error :  component unintialised."
	case atatf.RespFatalInvalidOp:
		return "RESP_FATAL_INVALID_OP: Processing Fatal Error :  invalid data path operation."
	case atatf.RespFatalInvalidData:
		return "RESP_FATAL_INVALID_DATA: Processing Fatal Error :  invalid capture data."
	case atatf.RespFatalSysErr:
		return "RESP_FATAL_SYS_ERR: Processing Fatal Error :  internal system error."
	default:
		return "Unknown RESP type."
	}
}

type errDesc struct {
	name string
	msg  string
}

var errorCodeDesc = map[atatf.Err]errDesc{
	atatf.OK:                    {"ATATF_OK", "No Error."},
	atatf.ErrFail:               {"ATATF_ERR_FAIL", "General failure."},
	atatf.ErrNotInit:            {"ATATF_ERR_NOT_INIT", "Component not initialised."},
	atatf.ErrInvalidParamVal:    {"ATATF_ERR_INVALID_PARAM_VAL", "Invalid value parameter passed to component."},
	atatf.ErrFileError:          {"ATATF_ERR_FILE_ERROR", "File access error"},
	atatf.ErrAttachTooMany:      {"ATATF_ERR_ATTACH_TOO_MANY", "Cannot attach - attach device limit reached."},
	atatf.ErrAttachCompNotFound: {"ATATF_ERR_ATTACH_COMP_NOT_FOUND", "Cannot detach - component not found."},
	atatf.ErrMissingChannel:     {"ATATF_ERR_MISSING_CHANNEL", "Required capture channel not present."},
	atatf.ErrCaptureParse:       {"ATATF_ERR_CAPTURE_PARSE", "Capture file parse error."},
	atatf.ErrCmdTableParse:      {"ATATF_ERR_CMD_TABLE_PARSE", "Custom command table entry invalid."},
	atatf.ErrCDBAborted:         {"ATATF_ERR_CDB_ABORTED", "ATAPI CDB collection aborted."},
	atatf.ErrCDBIncomplete:      {"ATATF_ERR_CDB_INCOMPLETE", "ATAPI CDB incomplete at end of capture."},
	atatf.ErrSinkFatal:          {"ATATF_ERR_SINK_FATAL", "Annotation sink returned a fatal response."},
	atatf.ErrLast:               {"ATATF_ERR_LAST", "No error - error code end marker"},
}
