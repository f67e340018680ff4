package main

import (
	"fmt"

	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/repository"
	"github.com/vip-affiliates/internal/service"
)

type seedAffiliate struct {
	Email       string
	DisplayName string
	Status      string
	VIP         string
}

const demoPageContentFormat = `Welcome to the partner lounge.

[%[1]s]
VIP partners: use code VIP-LEADERS for the extended commission tier.
[/%[1]s]`

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	opts := service.NewVIPOptions(cfg.VIP)
	userRepo := repository.NewUserRepository(models.DB)
	affiliateRepo := repository.NewAffiliateRepository(models.DB)
	metaRepo := repository.NewAffiliateMetaRepository(models.DB)
	settings := service.NewSettingService(repository.NewSettingRepository(models.DB))
	pages := service.NewPageService(repository.NewPageRepository(models.DB), nil)

	if _, err := settings.UpdateVIPSetting(service.VIPSetting{Enabled: true}); err != nil {
		stdLog.Printf("Failed to enable VIP affiliates: %v", err)
	} else {
		stdLog.Printf("Enabled VIP affiliates setting")
	}

	affiliates := []seedAffiliate{
		{Email: "leader@example.com", DisplayName: "Leader", Status: constants.AffiliateStatusActive, VIP: constants.VIPValueYes},
		{Email: "member@example.com", DisplayName: "Member", Status: constants.AffiliateStatusActive, VIP: constants.VIPValueNo},
		{Email: "pending@example.com", DisplayName: "Pending", Status: constants.AffiliateStatusPending},
	}
	for _, item := range affiliates {
		user, err := userRepo.GetByEmail(item.Email)
		if err != nil {
			stdLog.Printf("Failed to load user %s: %v", item.Email, err)
			continue
		}
		if user == nil {
			hash, err := service.HashPassword("password123")
			if err != nil {
				stdLog.Fatalf("Failed to hash password: %v", err)
			}
			user = &models.User{
				Email:        item.Email,
				PasswordHash: hash,
				DisplayName:  item.DisplayName,
				Status:       constants.UserStatusActive,
			}
			if err := userRepo.Create(user); err != nil {
				stdLog.Printf("Failed to create user %s: %v", item.Email, err)
				continue
			}
			stdLog.Printf("Created user: %s", item.Email)
		} else {
			stdLog.Printf("User already exists: %s", item.Email)
		}

		profile, err := affiliateRepo.GetByUserID(user.ID)
		if err != nil {
			stdLog.Printf("Failed to load affiliate for %s: %v", item.Email, err)
			continue
		}
		if profile == nil {
			profile = &models.AffiliateProfile{UserID: user.ID, Status: item.Status}
			if err := affiliateRepo.Create(profile); err != nil {
				stdLog.Printf("Failed to create affiliate for %s: %v", item.Email, err)
				continue
			}
			stdLog.Printf("Created affiliate #%d for %s", profile.ID, item.Email)
		}

		if item.VIP == "" {
			continue
		}
		// 同时写入两个键，无论判定读取哪个键演示数据都可见
		for _, key := range []string{opts.EditorMetaKey, opts.GateMetaKey} {
			if err := metaRepo.Upsert(profile.ID, key, item.VIP); err != nil {
				stdLog.Printf("Failed to write %s for affiliate #%d: %v", key, profile.ID, err)
			}
		}
	}

	published := true
	if _, err := pages.Create(service.PageInput{
		Slug:        "partner-lounge",
		Title:       "Partner Lounge",
		Content:     fmt.Sprintf(demoPageContentFormat, opts.ShortcodeTag),
		IsPublished: &published,
	}); err != nil {
		stdLog.Printf("Skip page partner-lounge: %v", err)
	} else {
		stdLog.Printf("Created page: partner-lounge")
	}

	stdLog.Printf("Seed completed")
}
