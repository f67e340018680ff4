package shared

import (
	"errors"

	"github.com/vip-affiliates/internal/http/response"
	"github.com/vip-affiliates/internal/i18n"
	"github.com/vip-affiliates/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if id := RequestID(c); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, i18n.T(i18n.ResolveLocale(c), key), err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message_key", key,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// ErrorRule 业务错误到响应的映射
type ErrorRule struct {
	Target error
	Code   int
	Key    string
}

// RespondMapped 按规则顺序匹配业务错误，命中时不记录错误日志，未命中按兜底处理
func RespondMapped(c *gin.Context, err error, rules []ErrorRule, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}
