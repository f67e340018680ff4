package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// keywordMatch 多列模糊匹配 scope；postgres 使用 ILIKE，其余方言使用 LIKE
// 关键字中的 % 与 _ 按字面量匹配
func keywordMatch(keyword string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return db
		}
		condition, argCount := likeCondition(dialectOf(db), columns)
		if argCount == 0 {
			return db
		}
		pattern := "%" + likeEscaper.Replace(keyword) + "%"
		args := make([]interface{}, argCount)
		for i := range args {
			args[i] = pattern
		}
		return db.Where(condition, args...)
	}
}

func dialectOf(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	return strings.ToLower(db.Dialector.Name())
}

func likeCondition(dialect string, columns []string) (string, int) {
	operator := "LIKE"
	if dialect == "postgres" || dialect == "postgresql" {
		operator = "ILIKE"
	}
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		parts = append(parts, column+" "+operator+` ? ESCAPE '\'`)
	}
	if len(parts) == 0 {
		return "", 0
	}
	return "(" + strings.Join(parts, " OR ") + ")", len(parts)
}
