package service

import (
	"testing"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/models"
)

type mockSettingRepo struct {
	store map[string]models.JSON
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{store: map[string]models.JSON{}}
}

func (m *mockSettingRepo) GetByKey(key string) (*models.Setting, error) {
	value, ok := m.store[key]
	if !ok {
		return nil, nil
	}
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

func (m *mockSettingRepo) ListByKeys(keys []string) ([]models.Setting, error) {
	result := make([]models.Setting, 0, len(keys))
	for _, key := range keys {
		if value, ok := m.store[key]; ok {
			result = append(result, models.Setting{Key: key, ValueJSON: value})
		}
	}
	return result, nil
}

func (m *mockSettingRepo) Upsert(key string, value models.JSON) (*models.Setting, error) {
	m.store[key] = value
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

func TestVIPSettingDefaultsDisabled(t *testing.T) {
	svc := NewSettingService(newMockSettingRepo())
	enabled, err := svc.IsVIPEnabled()
	if err != nil {
		t.Fatalf("read flag failed: %v", err)
	}
	if enabled {
		t.Fatalf("vip feature should default to disabled")
	}
	if svc.IsDebugMode() {
		t.Fatalf("debug mode should default to disabled")
	}
}

func TestUpdateVIPSettingRoundTrip(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	saved, err := svc.UpdateVIPSetting(VIPSetting{Enabled: true})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !saved.Enabled {
		t.Fatalf("saved setting should be enabled")
	}
	stored := repo.store[constants.SettingKeyVIP]
	if stored[constants.VIPSettingEnabledField] != true {
		t.Fatalf("unexpected stored value: %+v", stored)
	}
	enabled, err := svc.IsVIPEnabled()
	if err != nil || !enabled {
		t.Fatalf("flag should be enabled, got %v err=%v", enabled, err)
	}
}

func TestVIPSettingParsesLegacyValues(t *testing.T) {
	cases := []struct {
		raw    interface{}
		expect bool
	}{
		{raw: "1", expect: true},
		{raw: "on", expect: true},
		{raw: float64(1), expect: true},
		{raw: "0", expect: false},
		{raw: "", expect: false},
		{raw: nil, expect: false},
	}
	for _, tc := range cases {
		repo := newMockSettingRepo()
		repo.store[constants.SettingKeyVIP] = models.JSON{constants.VIPSettingEnabledField: tc.raw}
		svc := NewSettingService(repo)
		enabled, err := svc.IsVIPEnabled()
		if err != nil {
			t.Fatalf("read flag failed: %v", err)
		}
		if enabled != tc.expect {
			t.Fatalf("raw %v want %v got %v", tc.raw, tc.expect, enabled)
		}
	}
}

func TestUpdateDropsUnknownVIPFields(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)
	if _, err := svc.Update(constants.SettingKeyVIP, map[string]interface{}{
		constants.VIPSettingEnabledField: "yes",
		"unexpected":                     "value",
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	stored := repo.store[constants.SettingKeyVIP]
	if _, ok := stored["unexpected"]; ok {
		t.Fatalf("unknown field should be dropped: %+v", stored)
	}
	if stored[constants.VIPSettingEnabledField] != true {
		t.Fatalf("enabled should normalize to bool true: %+v", stored)
	}
}

func TestGeneralSettingDebugMode(t *testing.T) {
	svc := NewSettingService(newMockSettingRepo())
	if _, err := svc.UpdateGeneralSetting(GeneralSetting{DebugMode: true}); err != nil {
		t.Fatalf("update general failed: %v", err)
	}
	if !svc.IsDebugMode() {
		t.Fatalf("debug mode should be enabled")
	}
}
