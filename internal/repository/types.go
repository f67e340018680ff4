package repository

import "time"

// AffiliateListFilter 查询推广账号列表的过滤条件
type AffiliateListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	Keyword  string
}

// PageListFilter 查询页面列表的过滤条件
type PageListFilter struct {
	Page          int
	PageSize      int
	Search        string
	OnlyPublished bool
	OrderBy       string
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// VIPAuditLogListFilter 查询 VIP 审计日志列表的过滤条件
type VIPAuditLogListFilter struct {
	Page            int
	PageSize        int
	AffiliateID     uint
	OperatorAdminID uint
	Action          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
