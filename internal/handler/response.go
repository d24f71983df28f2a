package handler

import (
	"errors"
	"net/http"

	"github.com/blues/agrocoin/internal/contract"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// ContractErrorResponse 合约错误响应，携带错误码和HTTP状态映射
func ContractErrorResponse(c *gin.Context, err error) {
	var ce *contract.Error
	if !errors.As(err, &ce) {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(statusForCode(ce.Code), Response{
		Success: false,
		Code:    string(ce.Code),
		Message: ce.Message,
	})
}

// statusForCode 合约错误码到HTTP状态码的映射
func statusForCode(code contract.ErrorCode) int {
	switch code {
	case contract.CodeInvalidParameter:
		return http.StatusBadRequest
	case contract.CodeUnauthorized:
		return http.StatusForbidden
	case contract.CodeNotFound:
		return http.StatusNotFound
	case contract.CodeAlreadyInitialized, contract.CodeAlreadyFunded, contract.CodeAlreadyWithdrawn:
		return http.StatusConflict
	case contract.CodeStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}
