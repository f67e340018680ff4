package service

import (
	"context"
	"fmt"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/hooks"
	"github.com/vip-affiliates/internal/logger"
)

// 扩展点回调名称
const (
	vipCallbackSettingsTab   = "vip_affiliates.settings_tab"
	vipCallbackSettings      = "vip_affiliates.register_settings"
	vipCallbackFormField     = "vip_affiliates.form_field"
	vipCallbackInsertPersist = "vip_affiliates.insert_meta"
	vipCallbackUpdatePersist = "vip_affiliates.update_meta"

	vipInsertPriority = 10
	vipUpdatePriority = -1
)

// 表单与设置文案
const (
	vipSettingsHeaderName    = "VIP Affiliates"
	vipSettingsEnabledName   = "Enable affiliate leaders"
	vipSettingsEnabledDesc   = "Check this option to enable affiliate leaders."
	vipFormFieldLabel        = "Make this account a VIP affiliate."
	vipFormFieldDescription  = "Select whether or not this affiliate should be a VIP."
	vipFormOptionLabelYes    = "Yes"
	vipFormOptionLabelNo     = "No"
	vipFormFieldDefaultValue = constants.VIPValueNo
)

// CapabilityChecker 管理员能力判定
type CapabilityChecker interface {
	HasCapability(adminID uint, capability string) (bool, error)
}

// VIPMetaChange VIP 元数据变更记录
type VIPMetaChange struct {
	AffiliateID     uint
	MetaKey         string
	Value           string
	OperatorAdminID uint
	RequestID       string
}

// VIPMetaChangeNotifier 元数据写入成功后的后续处理
type VIPMetaChangeNotifier interface {
	NotifyVIPMetaChanged(ctx context.Context, change VIPMetaChange) error
}

// VIPEditorService 设置面板与推广账号表单中的 VIP 字段
type VIPEditorService struct {
	opts     VIPOptions
	meta     AffiliateMetaStore
	flags    VIPFeatureFlags
	caps     CapabilityChecker
	notifier VIPMetaChangeNotifier
}

// NewVIPEditorService 创建 VIP 编辑服务
func NewVIPEditorService(opts VIPOptions, meta AffiliateMetaStore, flags VIPFeatureFlags, caps CapabilityChecker, notifier VIPMetaChangeNotifier) *VIPEditorService {
	return &VIPEditorService{
		opts:     opts,
		meta:     meta,
		flags:    flags,
		caps:     caps,
		notifier: notifier,
	}
}

// Register 向分发器登记设置 Tab、设置项、表单字段与保存动作
func (s *VIPEditorService) Register(d *hooks.Dispatcher) error {
	if err := d.SettingsTabs.Add(vipCallbackSettingsTab, 10, s.settingsTab); err != nil {
		return err
	}
	if err := d.Settings.Add(vipCallbackSettings, 10, s.registerSettings); err != nil {
		return err
	}
	if err := d.AffiliateFormFields.Add(vipCallbackFormField, 10, s.formField); err != nil {
		return err
	}
	if err := d.AffiliateInserted.Add(vipCallbackInsertPersist, vipInsertPriority, s.persistFromEvent); err != nil {
		return err
	}
	return d.AffiliateUpdated.Add(vipCallbackUpdatePersist, vipUpdatePriority, s.persistFromEvent)
}

func (s *VIPEditorService) settingsTab(_ context.Context, tabs []hooks.SettingsTab) ([]hooks.SettingsTab, error) {
	result := make([]hooks.SettingsTab, 0, len(tabs)+1)
	for _, tab := range tabs {
		if tab.Key == constants.VIPSettingsTab {
			continue
		}
		result = append(result, tab)
	}
	return append(result, hooks.SettingsTab{Key: constants.VIPSettingsTab, Label: constants.VIPSettingsTabLabel}), nil
}

func (s *VIPEditorService) registerSettings(_ context.Context, schema hooks.SettingsSchema) (hooks.SettingsSchema, error) {
	result := make(hooks.SettingsSchema, len(schema)+1)
	for tab, fields := range schema {
		result[tab] = fields
	}
	result[constants.VIPSettingsTab] = []hooks.SettingField{
		{
			ID:   constants.VIPSettingsHeaderField,
			Name: vipSettingsHeaderName,
			Type: constants.SettingFieldTypeHeader,
		},
		{
			ID:          constants.VIPSettingEnabledField,
			Name:        vipSettingsEnabledName,
			Type:        constants.SettingFieldTypeCheckbox,
			Description: vipSettingsEnabledDesc,
			Default:     false,
		},
	}
	return result, nil
}

// formField 仅在功能开启时追加 VIP 下拉框，预选已保存的值
func (s *VIPEditorService) formField(ctx context.Context, form hooks.AffiliateForm) (hooks.AffiliateForm, error) {
	enabled, err := s.flags.IsVIPEnabled()
	if err != nil {
		return form, err
	}
	if !enabled {
		return form, nil
	}

	selected := vipFormFieldDefaultValue
	if form.Mode == hooks.FormModeEdit && form.AffiliateID != 0 {
		value, exists, err := s.meta.GetAffiliateMeta(ctx, form.AffiliateID, s.opts.EditorMetaKey)
		if err != nil {
			return form, err
		}
		if exists && value == constants.VIPValueYes {
			selected = constants.VIPValueYes
		}
	}

	fields := make([]hooks.FormField, 0, len(form.Fields)+1)
	for _, field := range form.Fields {
		if field.Name == constants.VIPFormField {
			continue
		}
		fields = append(fields, field)
	}
	form.Fields = append(fields, hooks.FormField{
		Name:        constants.VIPFormField,
		Label:       vipFormFieldLabel,
		Type:        constants.FormFieldTypeSelect,
		Description: vipFormFieldDescription,
		Options: []hooks.FormOption{
			{Value: constants.VIPValueYes, Label: vipFormOptionLabelYes},
			{Value: constants.VIPValueNo, Label: vipFormOptionLabelNo},
		},
		Value: selected,
	})
	return form, nil
}

func (s *VIPEditorService) persistFromEvent(ctx context.Context, event hooks.AffiliateEvent) error {
	return s.PersistVIPSelection(ctx, event.Actor, event.AffiliateID, event.FormValue(constants.VIPFormField))
}

// PersistVIPSelection 保存后台提交的 VIP 选择
// 非后台上下文或缺少 manage_affiliates 能力时拒绝且不写入；空值为 no-op；非空值原样写入
func (s *VIPEditorService) PersistVIPSelection(ctx context.Context, actor hooks.Actor, affiliateID uint, submitted string) error {
	if err := s.authorize(actor); err != nil {
		logger.Warnw("vip_meta_persist_forbidden",
			"admin_id", actor.AdminID,
			"affiliate_id", affiliateID,
			"request_id", actor.RequestID,
			"error", err,
		)
		return err
	}
	if submitted == "" {
		return nil
	}

	if err := s.meta.SetAffiliateMeta(ctx, affiliateID, s.opts.EditorMetaKey, submitted); err != nil {
		return fmt.Errorf("persist vip meta: %w", err)
	}
	logger.Infow("vip_meta_persisted",
		"admin_id", actor.AdminID,
		"affiliate_id", affiliateID,
		"meta_key", s.opts.EditorMetaKey,
		"value", submitted,
		"request_id", actor.RequestID,
	)

	if s.notifier == nil {
		return nil
	}
	change := VIPMetaChange{
		AffiliateID:     affiliateID,
		MetaKey:         s.opts.EditorMetaKey,
		Value:           submitted,
		OperatorAdminID: actor.AdminID,
		RequestID:       actor.RequestID,
	}
	if err := s.notifier.NotifyVIPMetaChanged(ctx, change); err != nil {
		logger.Warnw("vip_meta_change_notify_failed", "affiliate_id", affiliateID, "error", err)
	}
	return nil
}

func (s *VIPEditorService) authorize(actor hooks.Actor) error {
	if !actor.IsAdminContext {
		return ErrAdminContextRequired
	}
	if actor.IsSuper {
		return nil
	}
	if s.caps == nil || actor.AdminID == 0 {
		return ErrCapabilityMissing
	}
	ok, err := s.caps.HasCapability(actor.AdminID, constants.CapabilityManageAffiliates)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCapabilityMissing, err)
	}
	if !ok {
		return ErrCapabilityMissing
	}
	return nil
}
