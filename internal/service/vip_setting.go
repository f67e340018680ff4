package service

import (
	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/models"
)

// VIPSetting VIP 推广员设置
type VIPSetting struct {
	Enabled bool `json:"affwp_vip_affiliates_enabled"`
}

// GeneralSetting 通用设置
type GeneralSetting struct {
	DebugMode bool `json:"debug_mode"`
}

// VIPDefaultSetting 默认 VIP 设置，功能默认关闭
func VIPDefaultSetting() VIPSetting {
	return VIPSetting{Enabled: false}
}

// GeneralDefaultSetting 默认通用设置
func GeneralDefaultSetting() GeneralSetting {
	return GeneralSetting{DebugMode: false}
}

// VIPSettingToMap 转换为 settings 存储结构
func VIPSettingToMap(setting VIPSetting) models.JSON {
	return models.JSON{
		constants.VIPSettingEnabledField: setting.Enabled,
	}
}

// GeneralSettingToMap 转换为 settings 存储结构
func GeneralSettingToMap(setting GeneralSetting) models.JSON {
	return models.JSON{
		constants.SettingFieldDebugMode: setting.DebugMode,
	}
}

func vipSettingFromJSON(raw models.JSON, fallback VIPSetting) VIPSetting {
	result := fallback
	if enabledRaw, ok := raw[constants.VIPSettingEnabledField]; ok {
		result.Enabled = parseSettingBool(enabledRaw)
	}
	return result
}

func generalSettingFromJSON(raw models.JSON, fallback GeneralSetting) GeneralSetting {
	result := fallback
	if debugRaw, ok := raw[constants.SettingFieldDebugMode]; ok {
		result.DebugMode = parseSettingBool(debugRaw)
	}
	return result
}

// GetVIPSetting 获取 VIP 设置（优先 settings，空时回退默认）
func (s *SettingService) GetVIPSetting() (VIPSetting, error) {
	fallback := VIPDefaultSetting()
	if s == nil {
		return fallback, nil
	}
	value, err := s.GetByKey(constants.SettingKeyVIP)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	return vipSettingFromJSON(value, fallback), nil
}

// UpdateVIPSetting 更新 VIP 设置
func (s *SettingService) UpdateVIPSetting(setting VIPSetting) (VIPSetting, error) {
	stored, err := s.Update(constants.SettingKeyVIP, VIPSettingToMap(setting))
	if err != nil {
		return VIPDefaultSetting(), err
	}
	return vipSettingFromJSON(stored, VIPDefaultSetting()), nil
}

// IsVIPEnabled 功能开关
func (s *SettingService) IsVIPEnabled() (bool, error) {
	setting, err := s.GetVIPSetting()
	if err != nil {
		return false, err
	}
	return setting.Enabled, nil
}

// GetGeneralSetting 获取通用设置
func (s *SettingService) GetGeneralSetting() (GeneralSetting, error) {
	fallback := GeneralDefaultSetting()
	if s == nil {
		return fallback, nil
	}
	value, err := s.GetByKey(constants.SettingKeyGeneral)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	return generalSettingFromJSON(value, fallback), nil
}

// UpdateGeneralSetting 更新通用设置
func (s *SettingService) UpdateGeneralSetting(setting GeneralSetting) (GeneralSetting, error) {
	stored, err := s.Update(constants.SettingKeyGeneral, GeneralSettingToMap(setting))
	if err != nil {
		return GeneralDefaultSetting(), err
	}
	return generalSettingFromJSON(stored, GeneralDefaultSetting()), nil
}

// IsDebugMode 调试模式开关，读取失败视为关闭
func (s *SettingService) IsDebugMode() bool {
	setting, err := s.GetGeneralSetting()
	if err != nil {
		return false
	}
	return setting.DebugMode
}
