package models

import (
	"errors"
	"strings"

	"github.com/vip-affiliates/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminUsername = "admin"

// InitDefaultAdmin 管理员表为空时创建首个超级管理员
// 未提供密码时生成随机密码并仅在日志中输出一次
func InitDefaultAdmin(username, password string) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Admin{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		username = strings.TrimSpace(username)
		if username == "" {
			username = defaultAdminUsername
		}
		generated := password == ""
		if generated {
			password = strings.ReplaceAll(uuid.NewString(), "-", "")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := tx.Create(&Admin{Username: username, PasswordHash: string(hash), IsSuper: true}).Error; err != nil {
			return err
		}

		if generated {
			logger.Warnw("default_admin_created_with_generated_password", "username", username, "password", password)
		} else {
			logger.Infow("default_admin_created", "username", username)
		}
		return nil
	})
}
