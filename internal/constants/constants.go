package constants

// 推广账号状态常量
const (
	AffiliateStatusActive   = "active"
	AffiliateStatusInactive = "inactive"
	AffiliateStatusPending  = "pending"
	AffiliateStatusRejected = "rejected"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// VIP 推广员相关常量
const (
	// VIPSettingsTab 设置面板 Tab 标识
	VIPSettingsTab = "affwp_vip_affiliates"
	// VIPSettingsTabLabel 设置面板 Tab 名称
	VIPSettingsTabLabel = "VIP Affiliates"
	// VIPSettingsHeaderField 设置分组标题字段
	VIPSettingsHeaderField = "affwp_vip_affiliates_header"
	// VIPSettingEnabledField 功能开关字段
	VIPSettingEnabledField = "affwp_vip_affiliates_enabled"

	// VIPFormField 推广账号编辑表单中的下拉框字段名
	VIPFormField = "vip_affiliate"
	// VIPValueYes 表示 VIP
	VIPValueYes = "yes"
	// VIPValueNo 表示非 VIP
	VIPValueNo = "no"

	// MetaKeyAffiliateVIP 短代码判定读取的元数据键
	MetaKeyAffiliateVIP = "affiliate_vip"
	// MetaKeyVIPAffiliate 后台编辑表单写入的元数据键
	MetaKeyVIPAffiliate = "vip_affiliate"

	// ShortcodeVIPContent 短代码标签
	ShortcodeVIPContent = "affiliate-vip-content"
)

// 权限能力常量
const (
	CapabilityManageAffiliates = "manage_affiliates"
)

// Hook 名称常量
const (
	HookVIPShortcodeContent = "affwp_vip_affiliate_shortcode_content"
	HookSettingsTabs        = "affwp_settings_tabs"
	HookSettings            = "affwp_settings"
	HookEditAffiliateEnd    = "affwp_edit_affiliate_end"
	HookNewAffiliateEnd     = "affwp_new_affiliate_end"
	HookInsertAffiliate     = "affwp_insert_affiliate"
	HookUpdateAffiliate     = "affwp_update_affiliate"
)

// 设置字段类型常量
const (
	SettingFieldTypeHeader   = "header"
	SettingFieldTypeCheckbox = "checkbox"
	FormFieldTypeSelect      = "select"
)

// 队列与任务常量
const (
	QueueDefault             = "default"
	TaskAffiliateVIPMetaSync = "affiliate_vip:meta_changed"
)

// VIP 审计动作常量
const (
	VIPAuditActionMetaUpdated = "meta_updated"
)

// 设置存储键常量
const (
	// SettingKeyVIP VIP 设置在 settings 表中的键，与 Tab 标识一致
	SettingKeyVIP = VIPSettingsTab
	// SettingKeyGeneral 通用设置
	SettingKeyGeneral = "affwp_general"
	// SettingsTabGeneral 通用设置 Tab 标识
	SettingsTabGeneral = "general"
	// SettingsTabGeneralLabel 通用设置 Tab 名称
	SettingsTabGeneralLabel = "General"
	// SettingFieldDebugMode 调试模式开关，开启后记录 VIP 判定明细
	SettingFieldDebugMode = "debug_mode"
)
