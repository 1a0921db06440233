package shared

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextKeySessionEmail = "session_email"
	ContextKeyAccount      = "account"
)

var errAccountNotInContext = errors.New("session account missing from request context")

// CurrentAccount 读取中间件写入的当前账号
func CurrentAccount(c *gin.Context) (*models.Account, bool) {
	value, exists := c.Get(ContextKeyAccount)
	if !exists {
		response.Unauthorized(c, "unauthorized")
		return nil, false
	}
	account, ok := value.(*models.Account)
	if !ok || account == nil {
		RespondServiceError(c, errAccountNotInContext)
		return nil, false
	}
	return account, true
}

// SessionEmail 读取中间件解析出的会话邮箱
func SessionEmail(c *gin.Context) string {
	value, _ := c.Get(ContextKeySessionEmail)
	email, _ := value.(string)
	return email
}

// ParseUintParam 解析路径中的正整数 ID
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, name+" is invalid")
		return 0, false
	}
	return uint(id), true
}
