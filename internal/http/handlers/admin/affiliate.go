package admin

import (
	"strings"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/hooks"
	handlershared "github.com/vip-affiliates/internal/http/handlers/shared"
	"github.com/vip-affiliates/internal/http/response"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/service"

	"github.com/gin-gonic/gin"
)

// AffiliateCreateRequest 新建推广账号请求
// form 为编辑页附加字段，vip_affiliate 可直接放在顶层
type AffiliateCreateRequest struct {
	UserID       uint              `json:"user_id" binding:"required"`
	Status       string            `json:"status"`
	Form         map[string]string `json:"form"`
	VIPAffiliate *string           `json:"vip_affiliate"`
}

// AffiliateUpdateRequest 更新推广账号请求
type AffiliateUpdateRequest struct {
	Status       *string           `json:"status"`
	Form         map[string]string `json:"form"`
	VIPAffiliate *string           `json:"vip_affiliate"`
}

// AffiliateVIPRequest 单独保存 VIP 标记请求
type AffiliateVIPRequest struct {
	VIPAffiliate *string `json:"vip_affiliate"`
}

// AffiliateDetail 推广账号详情及表单附加字段
type AffiliateDetail struct {
	Affiliate *models.AffiliateProfile `json:"affiliate"`
	Form      hooks.AffiliateForm      `json:"form"`
}

func mergeVIPField(form map[string]string, vip *string) map[string]string {
	if vip == nil {
		return form
	}
	merged := make(map[string]string, len(form)+1)
	for key, value := range form {
		merged[key] = value
	}
	merged[constants.VIPFormField] = *vip
	return merged
}

// ListAffiliates 推广账号列表
func (h *Handler) ListAffiliates(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	rows, total, err := h.AffiliateService.List(service.AffiliateListInput{
		Page:     page,
		PageSize: pageSize,
		UserID:   handlershared.QueryUint(c, "user_id"),
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.affiliate_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// GetAffiliateNewForm 新建推广账号页的附加字段
func (h *Handler) GetAffiliateNewForm(c *gin.Context) {
	form, err := h.AffiliateService.BuildForm(c.Request.Context(), hooks.FormModeNew, 0)
	if err != nil {
		respondError(c, response.CodeInternal, "error.affiliate_fetch_failed", err)
		return
	}
	response.Success(c, form)
}

// GetAffiliate 推广账号详情，附带编辑页附加字段
func (h *Handler) GetAffiliate(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.AffiliateService.Get(id)
	if err != nil {
		respondAffiliateError(c, err, "error.affiliate_fetch_failed")
		return
	}
	form, err := h.AffiliateService.BuildForm(c.Request.Context(), hooks.FormModeEdit, id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.affiliate_fetch_failed", err)
		return
	}
	response.Success(c, AffiliateDetail{Affiliate: profile, Form: form})
}

// CreateAffiliate 新建推广账号
func (h *Handler) CreateAffiliate(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req AffiliateCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	profile, err := h.AffiliateService.Create(c.Request.Context(), actorFromContext(c, adminID), service.CreateAffiliateInput{
		UserID: req.UserID,
		Status: req.Status,
		Form:   mergeVIPField(req.Form, req.VIPAffiliate),
	})
	if err != nil {
		if profile != nil {
			requestLog(c).Warnw("admin_affiliate_created_action_failed",
				"affiliate_id", profile.ID,
				"admin_id", adminID,
				"error", err,
			)
		}
		respondAffiliateError(c, err, "error.affiliate_create_failed")
		return
	}
	requestLog(c).Infow("admin_affiliate_created",
		"affiliate_id", profile.ID,
		"user_id", profile.UserID,
		"admin_id", adminID,
	)
	response.Success(c, profile)
}

// UpdateAffiliate 更新推广账号
func (h *Handler) UpdateAffiliate(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req AffiliateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	profile, err := h.AffiliateService.Update(c.Request.Context(), actorFromContext(c, adminID), id, service.UpdateAffiliateInput{
		Status: req.Status,
		Form:   mergeVIPField(req.Form, req.VIPAffiliate),
	})
	if err != nil {
		respondAffiliateError(c, err, "error.affiliate_update_failed")
		return
	}
	response.Success(c, profile)
}

// UpdateAffiliateVIP 单独保存推广账号的 VIP 标记
// 未提交 vip_affiliate 时不做任何写入
func (h *Handler) UpdateAffiliateVIP(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req AffiliateVIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, err := h.AffiliateService.Get(id); err != nil {
		respondAffiliateError(c, err, "error.affiliate_fetch_failed")
		return
	}

	submitted := ""
	if req.VIPAffiliate != nil {
		submitted = *req.VIPAffiliate
	}
	if err := h.VIPEditorService.PersistVIPSelection(c.Request.Context(), actorFromContext(c, adminID), id, submitted); err != nil {
		respondAffiliateError(c, err, "error.vip_save_failed")
		return
	}

	form, err := h.AffiliateService.BuildForm(c.Request.Context(), hooks.FormModeEdit, id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.affiliate_fetch_failed", err)
		return
	}
	response.Success(c, form)
}

// DeleteAffiliate 删除推广账号及其元数据
func (h *Handler) DeleteAffiliate(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.AffiliateService.Delete(c.Request.Context(), id); err != nil {
		respondAffiliateError(c, err, "error.affiliate_delete_failed")
		return
	}
	response.Success(c, nil)
}
