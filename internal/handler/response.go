package handler

import (
	"errors"
	"net/http"

	"github.com/0xan000n/logos-service/internal/errs"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

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
		Data:    nil,
	})
}

// WriteError 按错误类型映射HTTP状态码
func WriteError(c *gin.Context, err error) {
	ErrorResponse(c, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidLogoId):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrEnforcedPause),
		errors.Is(err, errs.ErrExpectedPause):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrLogoNotCrowdfunding),
		errors.Is(err, errs.ErrLogoUploaded),
		errors.Is(err, errs.ErrLogoNotScheduled),
		errors.Is(err, errs.ErrLogoNotUploaded),
		errors.Is(err, errs.ErrLogoDistributed),
		errors.Is(err, errs.ErrLogoRefunded),
		errors.Is(err, errs.ErrLogoFundsCannotBeWithdrawn),
		errors.Is(err, errs.ErrCrowdfundEnded),
		errors.Is(err, errs.ErrRejectionDeadlinePassed),
		errors.Is(err, errs.ErrRejectionDeadlineNotPassed),
		errors.Is(err, errs.ErrBackerAlreadyRejected):
		return http.StatusConflict
	case errs.IsBusiness(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// callerAddress 从请求头取调用者地址
func callerAddress(c *gin.Context) (string, bool) {
	caller := c.GetHeader("X-Caller-Address")
	if caller == "" {
		ErrorResponse(c, http.StatusBadRequest, "missing X-Caller-Address header")
		return "", false
	}
	return caller, true
}
