package hooks

// 表单模式
const (
	FormModeNew  = "new"
	FormModeEdit = "edit"
)

// SettingsTab 设置面板 Tab
type SettingsTab struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SettingField 设置项定义
type SettingField struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Default     interface{} `json:"default,omitempty"`
}

// SettingsSchema 按 Tab 分组的设置项
type SettingsSchema map[string][]SettingField

// FormOption 下拉选项
type FormOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormField 推广账号表单附加字段
type FormField struct {
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	Options     []FormOption `json:"options,omitempty"`
	Value       string       `json:"value"`
}

// AffiliateForm 推广账号新建/编辑表单
// AffiliateID 在新建模式下为 0
type AffiliateForm struct {
	Mode        string      `json:"mode"`
	AffiliateID uint        `json:"affiliate_id"`
	Fields      []FormField `json:"fields"`
}

// Viewer 正在浏览内容的访客；UserID 为 0 表示匿名
type Viewer struct {
	UserID uint `json:"user_id"`
}

// Anonymous 是否匿名访客
func (v Viewer) Anonymous() bool {
	return v.UserID == 0
}

// Actor 发起操作的主体
type Actor struct {
	AdminID        uint   `json:"admin_id"`
	Username       string `json:"username"`
	IsSuper        bool   `json:"is_super"`
	IsAdminContext bool   `json:"is_admin_context"`
	RequestID      string `json:"request_id"`
}

// AffiliateEvent 推广账号新建/更新事件
// Form 为提交的附加表单字段原值
type AffiliateEvent struct {
	Actor       Actor             `json:"actor"`
	AffiliateID uint              `json:"affiliate_id"`
	Form        map[string]string `json:"form"`
}

// FormValue 读取提交的表单字段，缺失时返回空串
func (e AffiliateEvent) FormValue(name string) string {
	if e.Form == nil {
		return ""
	}
	return e.Form[name]
}
