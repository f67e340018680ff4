package admin

import (
	"strings"

	handlershared "github.com/vip-affiliates/internal/http/handlers/shared"
	"github.com/vip-affiliates/internal/http/response"
	"github.com/vip-affiliates/internal/service"

	"github.com/gin-gonic/gin"
)

// PageRequest 创建/更新页面请求
type PageRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content"`
	IsPublished *bool  `json:"is_published"`
}

func (r PageRequest) toInput() service.PageInput {
	return service.PageInput{
		Slug:        r.Slug,
		Title:       r.Title,
		Content:     r.Content,
		IsPublished: r.IsPublished,
	}
}

// ListPages 后台页面列表
func (h *Handler) ListPages(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	pages, total, err := h.PageService.ListAdmin(strings.TrimSpace(c.Query("search")), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.page_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, pages, response.BuildPagination(page, pageSize, total))
}

// GetPage 后台页面详情（原始正文）
func (h *Handler) GetPage(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	page, err := h.PageService.GetAdmin(id)
	if err != nil {
		respondPageError(c, err, "error.page_fetch_failed")
		return
	}
	response.Success(c, page)
}

// CreatePage 创建页面
func (h *Handler) CreatePage(c *gin.Context) {
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, err := h.PageService.Create(req.toInput())
	if err != nil {
		respondPageError(c, err, "error.page_create_failed")
		return
	}
	response.Success(c, page)
}

// UpdatePage 更新页面
func (h *Handler) UpdatePage(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, err := h.PageService.Update(id, req.toInput())
	if err != nil {
		respondPageError(c, err, "error.page_update_failed")
		return
	}
	response.Success(c, page)
}

// DeletePage 删除页面
func (h *Handler) DeletePage(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PageService.Delete(id); err != nil {
		respondPageError(c, err, "error.page_delete_failed")
		return
	}
	response.Success(c, nil)
}
