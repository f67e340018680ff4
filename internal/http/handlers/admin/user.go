package admin

import (
	"strings"

	handlershared "github.com/vip-affiliates/internal/http/handlers/shared"
	"github.com/vip-affiliates/internal/http/response"
	"github.com/vip-affiliates/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListUsers 前台用户列表，供新建推广账号时选择用户
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	createdFrom, ok := parseTimeQuery(c, "created_from", false)
	if !ok {
		return
	}
	createdTo, ok := parseTimeQuery(c, "created_to", true)
	if !ok {
		return
	}
	users, total, err := h.UserRepo.List(repository.UserListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, users, response.BuildPagination(page, pageSize, total))
}

type userStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateUserStatus 启用或停用前台用户
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	userID, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req userStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserAuthService.SetUserStatus(c.Request.Context(), userID, req.Status)
	if err != nil {
		handlershared.RespondMapped(c, err, userStatusErrorRules, response.CodeInternal, "error.user_update_failed")
		return
	}
	requestLog(c).Infow("admin_user_status_updated",
		"operator_admin_id", c.GetUint("admin_id"),
		"user_id", userID,
		"status", user.Status,
	)
	response.Success(c, user)
}
