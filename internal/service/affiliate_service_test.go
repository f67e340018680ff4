package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/hooks"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

type affiliateFixture struct {
	db         *gorm.DB
	dispatcher *hooks.Dispatcher
	meta       *AffiliateMetaService
	metaRepo   *repository.GormAffiliateMetaRepository
	settings   *SettingService
	affiliates *AffiliateService
	editor     *VIPEditorService
}

func newAffiliateFixture(t *testing.T, opts VIPOptions) *affiliateFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	dispatcher := hooks.NewDispatcher()
	metaRepo := repository.NewAffiliateMetaRepository(db)
	meta := NewAffiliateMetaService(metaRepo, opts.CacheTTL)
	settings := NewSettingService(repository.NewSettingRepository(db))
	if _, err := settings.UpdateVIPSetting(VIPSetting{Enabled: true}); err != nil {
		t.Fatalf("enable vip failed: %v", err)
	}
	caps := &stubCapabilityChecker{allowed: map[uint]bool{1: true}}
	editor := NewVIPEditorService(opts, meta, settings, caps, nil)
	if err := editor.Register(dispatcher); err != nil {
		t.Fatalf("register editor failed: %v", err)
	}
	affiliates := NewAffiliateService(
		repository.NewAffiliateRepository(db),
		metaRepo,
		repository.NewUserRepository(db),
		meta,
		dispatcher,
	)
	return &affiliateFixture{
		db:         db,
		dispatcher: dispatcher,
		meta:       meta,
		metaRepo:   metaRepo,
		settings:   settings,
		affiliates: affiliates,
		editor:     editor,
	}
}

func (f *affiliateFixture) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "hash", Status: constants.UserStatusActive}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestAffiliateCreatePersistsVIPSelection(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	user := f.createUser(t, "leader@example.com")

	profile, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{
		UserID: user.ID,
		Form:   map[string]string{constants.VIPFormField: "yes"},
	})
	if err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	if profile.Status != constants.AffiliateStatusActive {
		t.Fatalf("status should default to active, got %s", profile.Status)
	}
	value, exists, err := f.meta.GetAffiliateMeta(context.Background(), profile.ID, constants.MetaKeyVIPAffiliate)
	if err != nil || !exists || value != "yes" {
		t.Fatalf("vip meta not persisted: value=%q exists=%v err=%v", value, exists, err)
	}
}

func TestAffiliateCreateWithoutCapabilityKeepsProfile(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	user := f.createUser(t, "member@example.com")

	actor := hooks.Actor{AdminID: 2, IsAdminContext: true}
	profile, err := f.affiliates.Create(context.Background(), actor, CreateAffiliateInput{
		UserID: user.ID,
		Form:   map[string]string{constants.VIPFormField: "yes"},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if profile == nil || profile.ID == 0 {
		t.Fatalf("profile should be created before the insert action runs")
	}
	metas, err := f.metaRepo.ListByAffiliate(profile.ID)
	if err != nil {
		t.Fatalf("list meta failed: %v", err)
	}
	if len(metas) != 0 {
		t.Fatalf("forbidden insert must not write meta: %+v", metas)
	}
}

func TestAffiliateUpdateWithoutCapabilityWritesNothing(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	user := f.createUser(t, "restricted@example.com")
	profile, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}

	rejected := constants.AffiliateStatusRejected
	actor := hooks.Actor{AdminID: 2, IsAdminContext: true}
	_, err = f.affiliates.Update(context.Background(), actor, profile.ID, UpdateAffiliateInput{
		Status: &rejected,
		Form:   map[string]string{constants.VIPFormField: "yes"},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	stored, err := f.affiliates.Get(profile.ID)
	if err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if stored.Status != profile.Status {
		t.Fatalf("forbidden update must keep status %s, got %s", profile.Status, stored.Status)
	}
	metas, err := f.metaRepo.ListByAffiliate(profile.ID)
	if err != nil {
		t.Fatalf("list meta failed: %v", err)
	}
	if len(metas) != 0 {
		t.Fatalf("forbidden update must not write meta: %+v", metas)
	}
}

func TestAffiliateCreateValidation(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	user := f.createUser(t, "dup@example.com")

	if _, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{UserID: user.ID, Status: "archived"}); !errors.Is(err, ErrInvalidAffiliateStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{UserID: 9999}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if _, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{UserID: user.ID, Status: "Pending"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{UserID: user.ID}); !errors.Is(err, ErrAffiliateExists) {
		t.Fatalf("expected affiliate exists, got %v", err)
	}
}

func TestAffiliateUpdateOverwritesVIPSelection(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	user := f.createUser(t, "update@example.com")
	profile, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{
		UserID: user.ID,
		Form:   map[string]string{constants.VIPFormField: "yes"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := constants.AffiliateStatusInactive
	updated, err := f.affiliates.Update(context.Background(), managerActor(), profile.ID, UpdateAffiliateInput{
		Status: &status,
		Form:   map[string]string{constants.VIPFormField: "no"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != constants.AffiliateStatusInactive {
		t.Fatalf("status not updated: %s", updated.Status)
	}
	value, _, _ := f.meta.GetAffiliateMeta(context.Background(), profile.ID, constants.MetaKeyVIPAffiliate)
	if value != "no" {
		t.Fatalf("vip meta want no got %q", value)
	}

	// 未提交字段时保持原值
	if _, err := f.affiliates.Update(context.Background(), managerActor(), profile.ID, UpdateAffiliateInput{}); err != nil {
		t.Fatalf("empty update failed: %v", err)
	}
	value, _, _ = f.meta.GetAffiliateMeta(context.Background(), profile.ID, constants.MetaKeyVIPAffiliate)
	if value != "no" {
		t.Fatalf("empty submission should keep value, got %q", value)
	}

	if _, err := f.affiliates.Update(context.Background(), managerActor(), 9999, UpdateAffiliateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAffiliateVIPMetaIsSingleRow(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	user := f.createUser(t, "idem@example.com")
	profile, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := f.editor.PersistVIPSelection(context.Background(), managerActor(), profile.ID, "yes"); err != nil {
			t.Fatalf("persist failed: %v", err)
		}
	}
	metas, err := f.metaRepo.ListByAffiliate(profile.ID)
	if err != nil {
		t.Fatalf("list meta failed: %v", err)
	}
	if len(metas) != 1 || metas[0].MetaValue != "yes" {
		t.Fatalf("expected single yes row, got %+v", metas)
	}
}

func TestAffiliateDeleteRemovesMeta(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	user := f.createUser(t, "delete@example.com")
	profile, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{
		UserID: user.ID,
		Form:   map[string]string{constants.VIPFormField: "yes"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.meta.SetAffiliateMeta(context.Background(), profile.ID, constants.MetaKeyAffiliateVIP, "yes"); err != nil {
		t.Fatalf("set gate meta failed: %v", err)
	}

	if err := f.affiliates.Delete(context.Background(), profile.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := f.affiliates.Get(profile.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("profile should be gone, got %v", err)
	}
	metas, err := f.metaRepo.ListByAffiliate(profile.ID)
	if err != nil {
		t.Fatalf("list meta failed: %v", err)
	}
	if len(metas) != 0 {
		t.Fatalf("meta should be removed with the profile: %+v", metas)
	}
	if err := f.affiliates.Delete(context.Background(), profile.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestAffiliateIDForUserAndList(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	alice := f.createUser(t, "alice@example.com")
	bob := f.createUser(t, "bob@example.com")
	profile, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{UserID: alice.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	id, found, err := f.affiliates.AffiliateIDForUser(context.Background(), alice.ID)
	if err != nil || !found || id != profile.ID {
		t.Fatalf("lookup alice: id=%d found=%v err=%v", id, found, err)
	}
	if _, found, err := f.affiliates.AffiliateIDForUser(context.Background(), bob.ID); err != nil || found {
		t.Fatalf("bob has no affiliate: found=%v err=%v", found, err)
	}
	if _, found, _ := f.affiliates.AffiliateIDForUser(context.Background(), 0); found {
		t.Fatalf("anonymous user has no affiliate")
	}

	items, total, err := f.affiliates.List(AffiliateListInput{Page: 1, PageSize: 20, Keyword: "alice"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].User.Email != "alice@example.com" {
		t.Fatalf("unexpected list result: total=%d items=%+v", total, items)
	}
}

func TestAffiliateBuildForm(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	user := f.createUser(t, "form@example.com")
	profile, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{
		UserID: user.ID,
		Form:   map[string]string{constants.VIPFormField: "yes"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	form, err := f.affiliates.BuildForm(context.Background(), hooks.FormModeEdit, profile.ID)
	if err != nil {
		t.Fatalf("build form failed: %v", err)
	}
	if len(form.Fields) != 1 || form.Fields[0].Value != "yes" {
		t.Fatalf("edit form should preselect yes: %+v", form.Fields)
	}

	form, err = f.affiliates.BuildForm(context.Background(), "unknown", profile.ID)
	if err != nil {
		t.Fatalf("build new form failed: %v", err)
	}
	if form.Mode != hooks.FormModeNew || form.AffiliateID != 0 || form.Fields[0].Value != "no" {
		t.Fatalf("unexpected new form: %+v", form)
	}

	if _, err := f.settings.UpdateVIPSetting(VIPSetting{Enabled: false}); err != nil {
		t.Fatalf("disable vip failed: %v", err)
	}
	form, err = f.affiliates.BuildForm(context.Background(), hooks.FormModeEdit, profile.ID)
	if err != nil {
		t.Fatalf("build form failed: %v", err)
	}
	if len(form.Fields) != 0 {
		t.Fatalf("disabled feature should hide the field: %+v", form.Fields)
	}
}

func TestAffiliateSaveRunsWhenFeatureDisabled(t *testing.T) {
	f := newAffiliateFixture(t, DefaultVIPOptions())
	if _, err := f.settings.UpdateVIPSetting(VIPSetting{Enabled: false}); err != nil {
		t.Fatalf("disable vip failed: %v", err)
	}
	user := f.createUser(t, "disabled@example.com")
	profile, err := f.affiliates.Create(context.Background(), managerActor(), CreateAffiliateInput{
		UserID: user.ID,
		Form:   map[string]string{constants.VIPFormField: "yes"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	value, exists, _ := f.meta.GetAffiliateMeta(context.Background(), profile.ID, constants.MetaKeyVIPAffiliate)
	if !exists || value != "yes" {
		t.Fatalf("save actions stay registered when disabled, got %q exists=%v", value, exists)
	}
}
