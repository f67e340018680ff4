package models

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupModelsTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:models_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	previous := DB
	DB = db
	t.Cleanup(func() { DB = previous })
}

func TestInitDefaultAdminCreatesOnce(t *testing.T) {
	setupModelsTestDB(t)

	if err := InitDefaultAdmin(" owner ", "owner-pass"); err != nil {
		t.Fatalf("init default admin failed: %v", err)
	}
	if err := InitDefaultAdmin("second", "second-pass"); err != nil {
		t.Fatalf("second init should be a no-op: %v", err)
	}

	var admins []Admin
	if err := DB.Find(&admins).Error; err != nil {
		t.Fatalf("list admins failed: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("want exactly one admin, got %d", len(admins))
	}
	if admins[0].Username != "owner" || !admins[0].IsSuper {
		t.Fatalf("unexpected admin: %+v", admins[0])
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admins[0].PasswordHash), []byte("owner-pass")); err != nil {
		t.Fatalf("password hash mismatch: %v", err)
	}
}

func TestInitDefaultAdminGeneratesPassword(t *testing.T) {
	setupModelsTestDB(t)
	if err := InitDefaultAdmin("", ""); err != nil {
		t.Fatalf("init default admin failed: %v", err)
	}
	var admin Admin
	if err := DB.First(&admin).Error; err != nil {
		t.Fatalf("load admin failed: %v", err)
	}
	if admin.Username != defaultAdminUsername {
		t.Fatalf("username want %s got %s", defaultAdminUsername, admin.Username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")); err == nil {
		t.Fatalf("generated password must not be a fixed default")
	}
}
