package shared

import (
	"errors"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const unexpectedErrorMessage = "internal server error"

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// errorReply 错误类别对应的对外响应
type errorReply struct {
	code    int
	message string
	// logged 为 true 时原因不对外暴露，只写日志
	logged bool
}

func replyForError(err error) errorReply {
	switch {
	case errors.Is(err, service.ErrDelivery):
		return errorReply{code: response.CodeInternal, message: service.ErrDelivery.Error(), logged: true}
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidOrExpired),
		errors.Is(err, service.ErrNotVerified):
		return errorReply{code: response.CodeBadRequest, message: err.Error()}
	case errors.Is(err, service.ErrUnauthorized):
		return errorReply{code: response.CodeUnauthorized, message: err.Error()}
	case errors.Is(err, service.ErrForbidden):
		return errorReply{code: response.CodeForbidden, message: err.Error()}
	case errors.Is(err, service.ErrNotFound):
		return errorReply{code: response.CodeNotFound, message: err.Error()}
	default:
		return errorReply{code: response.CodeInternal, message: unexpectedErrorMessage, logged: true}
	}
}

// StatusForError 按错误类别映射 HTTP 状态码，未归类的错误返回 500
func StatusForError(err error) int {
	if err == nil {
		return response.CodeOK
	}
	return replyForError(err).code
}

// RespondServiceError 将服务层错误转换为响应：已归类的错误返回具体原因，
// 投递失败只返回类别信息，其余错误只返回通用信息并记录日志。
func RespondServiceError(c *gin.Context, err error) {
	reply := replyForError(err)
	if reply.logged {
		RequestLog(c).Errorw("handler_error",
			"code", reply.code,
			"message", reply.message,
			"error", err,
		)
	}
	response.Error(c, reply.code, reply.message)
}

// RespondBadRequest 请求体或参数无法解析
func RespondBadRequest(c *gin.Context, err error) {
	msg := "invalid request"
	if err != nil {
		RequestLog(c).Debugw("handler_bad_request", "error", err)
	}
	response.BadRequest(c, msg)
}
