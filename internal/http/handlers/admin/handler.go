package admin

import (
	handlershared "github.com/vip-affiliates/internal/http/handlers/shared"
	"github.com/vip-affiliates/internal/http/response"
	"github.com/vip-affiliates/internal/provider"
	"github.com/vip-affiliates/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 后台管理接口，除登录外均经过管理员 JWT 与 RBAC 校验
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

var affiliateErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.vip_permission_denied"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.affiliate_not_found"},
	{Target: service.ErrUserNotFound, Code: response.CodeBadRequest, Key: "error.user_not_found"},
	{Target: service.ErrAffiliateExists, Code: response.CodeConflict, Key: "error.affiliate_exists"},
	{Target: service.ErrInvalidAffiliateStatus, Code: response.CodeBadRequest, Key: "error.affiliate_status_invalid"},
}

var userStatusErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrInvalidUserStatus, Code: response.CodeBadRequest, Key: "error.user_status_invalid"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
}

var pageErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.page_not_found"},
	{Target: service.ErrInvalidPageSlug, Code: response.CodeBadRequest, Key: "error.page_slug_invalid"},
	{Target: service.ErrPageTitleRequired, Code: response.CodeBadRequest, Key: "error.page_title_required"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
}

func respondAffiliateError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondMapped(c, err, affiliateErrorRules, response.CodeInternal, fallbackKey)
}

func respondPageError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondMapped(c, err, pageErrorRules, response.CodeInternal, fallbackKey)
}
