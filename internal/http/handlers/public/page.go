package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vip-affiliates/internal/http/response"
	"github.com/vip-affiliates/internal/service"

	"github.com/gin-gonic/gin"
)

// maxPreviewBodyBytes 预览接口无需登录，限制请求体大小
const maxPreviewBodyBytes = 256 << 10

// RenderPreviewRequest 短代码预览请求
type RenderPreviewRequest struct {
	Content string `json:"content"`
}

// GetPublicPage 获取已发布页面，正文按当前访客展开短代码
func (h *Handler) GetPublicPage(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	page, err := h.PageService.RenderPublished(c.Request.Context(), viewerFromContext(c), slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.page_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.page_fetch_failed", err)
		return
	}
	response.Success(c, page)
}

// RenderPreview 按当前访客展开任意正文
func (h *Handler) RenderPreview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPreviewBodyBytes)
	var req RenderPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, response.CodeBadRequest, "error.preview_too_large", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, gin.H{
		"content": h.PageService.RenderContent(c.Request.Context(), viewerFromContext(c), req.Content),
	})
}
