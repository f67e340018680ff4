package public

import (
	"github.com/vip-affiliates/internal/hooks"
	handlershared "github.com/vip-affiliates/internal/http/handlers/shared"
	"github.com/vip-affiliates/internal/http/response"
	"github.com/vip-affiliates/internal/provider"
	"github.com/vip-affiliates/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 访客与前台用户侧接口：登录、个人 VIP 状态、页面渲染
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

var loginErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

// viewerFromContext 可选鉴权下的访客，未登录或令牌无效时为匿名
func viewerFromContext(c *gin.Context) hooks.Viewer {
	return hooks.Viewer{UserID: c.GetUint("user_id")}
}
