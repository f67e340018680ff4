package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/vip-affiliates/internal/hooks"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/repository"
)

var pageSlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,190}$`)

// ContentExpander 短代码展开
type ContentExpander interface {
	Expand(ctx context.Context, viewer hooks.Viewer, text string) string
}

// PageService 内容页面业务服务
type PageService struct {
	repo     repository.PageRepository
	expander ContentExpander
}

// NewPageService 创建页面服务
func NewPageService(repo repository.PageRepository, expander ContentExpander) *PageService {
	return &PageService{repo: repo, expander: expander}
}

// PageInput 创建/更新页面输入
type PageInput struct {
	Slug        string
	Title       string
	Content     string
	IsPublished *bool
}

// RenderedPage 按访客展开短代码后的页面
type RenderedPage struct {
	ID          uint       `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at"`
}

// ListAdmin 获取后台页面列表
func (s *PageService) ListAdmin(search string, page, pageSize int) ([]models.Page, int64, error) {
	return s.repo.List(repository.PageListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
		OrderBy:  "created_at DESC",
	})
}

// GetAdmin 获取后台页面详情
func (s *PageService) GetAdmin(id uint) (*models.Page, error) {
	page, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}
	return page, nil
}

// Create 创建页面
func (s *PageService) Create(input PageInput) (*models.Page, error) {
	slug, title, err := normalizePageInput(input)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	page := models.Page{
		Slug:    slug,
		Title:   title,
		Content: input.Content,
	}
	applyPagePublish(&page, input.IsPublished)
	if err := s.repo.Create(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Update 更新页面
func (s *PageService) Update(id uint, input PageInput) (*models.Page, error) {
	slug, title, err := normalizePageInput(input)
	if err != nil {
		return nil, err
	}
	page, err := s.GetAdmin(id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(slug, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	page.Slug = slug
	page.Title = title
	page.Content = input.Content
	applyPagePublish(page, input.IsPublished)
	if err := s.repo.Update(page); err != nil {
		return nil, err
	}
	return page, nil
}

// Delete 删除页面
func (s *PageService) Delete(id uint) error {
	if _, err := s.GetAdmin(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// RenderPublished 获取已发布页面并按访客展开短代码
func (s *PageService) RenderPublished(ctx context.Context, viewer hooks.Viewer, slug string) (*RenderedPage, error) {
	page, err := s.repo.GetBySlug(strings.ToLower(strings.TrimSpace(slug)), true)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}
	return &RenderedPage{
		ID:          page.ID,
		Slug:        page.Slug,
		Title:       page.Title,
		Content:     s.RenderContent(ctx, viewer, page.Content),
		PublishedAt: page.PublishedAt,
	}, nil
}

// RenderContent 按访客展开任意正文中的短代码
func (s *PageService) RenderContent(ctx context.Context, viewer hooks.Viewer, content string) string {
	if s.expander == nil {
		return content
	}
	return s.expander.Expand(ctx, viewer, content)
}

func normalizePageInput(input PageInput) (string, string, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !pageSlugPattern.MatchString(slug) {
		return "", "", ErrInvalidPageSlug
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", "", ErrPageTitleRequired
	}
	return slug, title, nil
}

// applyPagePublish 首次发布时记录发布时间，取消发布保留原时间
func applyPagePublish(page *models.Page, isPublished *bool) {
	if isPublished == nil {
		return
	}
	page.IsPublished = *isPublished
	if page.IsPublished && page.PublishedAt == nil {
		now := time.Now()
		page.PublishedAt = &now
	}
}
