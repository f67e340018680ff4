package admin

import (
	"strings"

	"github.com/vip-affiliates/internal/hooks"
	handlershared "github.com/vip-affiliates/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "error.admin_id_invalid", "error.admin_id_type_invalid")
}

func currentUsername(c *gin.Context) string {
	return strings.TrimSpace(c.GetString("username"))
}

func currentIsSuper(c *gin.Context) bool {
	return c.GetBool("admin_is_super")
}

// actorFromContext 从鉴权上下文构造后台操作者
func actorFromContext(c *gin.Context, adminID uint) hooks.Actor {
	return hooks.Actor{
		AdminID:        adminID,
		Username:       currentUsername(c),
		IsSuper:        currentIsSuper(c),
		IsAdminContext: true,
		RequestID:      handlershared.RequestID(c),
	}
}
