package contract

import (
	"errors"
	"fmt"
)

// ErrorCode 合约错误码
type ErrorCode string

const (
	CodeAlreadyInitialized  ErrorCode = "ALREADY_INITIALIZED"
	CodeNotInitialized      ErrorCode = "NOT_INITIALIZED"
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeInvalidParameter    ErrorCode = "INVALID_PARAMETER"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeInactiveProject     ErrorCode = "INACTIVE_PROJECT"
	CodeAlreadyFunded       ErrorCode = "ALREADY_FUNDED"
	CodeBelowMinimum        ErrorCode = "BELOW_MINIMUM"
	CodeExceedsGoal         ErrorCode = "EXCEEDS_GOAL"
	CodeNotYetFunded        ErrorCode = "NOT_YET_FUNDED"
	CodeNoReturnsAvailable  ErrorCode = "NO_RETURNS_AVAILABLE"
	CodeDurationNotComplete ErrorCode = "DURATION_NOT_COMPLETE"
	CodeAlreadyWithdrawn    ErrorCode = "ALREADY_WITHDRAWN"
	CodeStorage             ErrorCode = "STORAGE_ERROR"
)

// Error 合约错误，携带错误码供调用方判断
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func errf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// storageErr 包装底层存储错误
func storageErr(err error) *Error {
	return &Error{Code: CodeStorage, Message: err.Error()}
}

// CodeOf 提取错误码，非合约错误返回空串
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
