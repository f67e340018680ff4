package i18n

var messages = map[string]map[string]string{
	LocaleZH: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未登录或登录已失效",
		"error.forbidden":                "没有权限执行该操作",
		"error.internal_error":           "服务器内部错误",
		"error.jwt_secret_missing":       "服务端未配置 JWT 密钥",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.auth_header_invalid":      "Authorization 请求头格式错误",
		"error.token_invalid":            "登录凭证无效",
		"error.token_revoked":            "登录凭证已失效，请重新登录",
		"error.user_disabled":            "账号已被禁用",
		"error.login_failed":             "登录失败",
		"error.admin_login_invalid":      "用户名或密码错误",
		"error.login_too_many":           "登录尝试次数过多，请 %d 秒后重试",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":   "限流服务暂不可用",
		"error.settings_fetch_failed":    "获取设置失败",
		"error.settings_save_failed":     "保存设置失败",
		"error.user_not_found":           "用户不存在",
		"error.affiliate_not_found":      "推广账号不存在",
		"error.affiliate_exists":         "该用户已有推广账号",
		"error.affiliate_status_invalid": "推广账号状态不合法",
		"error.affiliate_fetch_failed":   "获取推广账号失败",
		"error.affiliate_create_failed":  "创建推广账号失败",
		"error.affiliate_update_failed":  "更新推广账号失败",
		"error.affiliate_delete_failed":  "删除推广账号失败",
		"error.vip_permission_denied":    "您没有管理推广账号的权限",
		"error.vip_save_failed":          "保存 VIP 标记失败",
		"error.page_not_found":           "页面不存在",
		"error.page_fetch_failed":        "获取页面失败",
		"error.page_create_failed":       "创建页面失败",
		"error.page_update_failed":       "更新页面失败",
		"error.page_delete_failed":       "删除页面失败",
		"error.slug_exists":              "唯一标识已存在",
		"error.audit_fetch_failed":       "获取审计日志失败",
		"error.authz_fetch_failed":       "获取权限配置失败",
		"error.authz_update_failed":      "更新权限配置失败",
		"error.login_invalid":            "邮箱或密码错误",
		"error.email_invalid":            "邮箱格式不正确",
		"error.admin_id_invalid":         "管理员身份无效",
		"error.admin_id_type_invalid":    "管理员身份类型错误",
		"error.admin_not_found":          "管理员不存在",
		"error.user_id_invalid":          "用户身份无效",
		"error.user_id_type_invalid":     "用户身份类型错误",
		"error.user_fetch_failed":        "获取用户失败",
		"error.user_status_invalid":      "用户状态不合法",
		"error.user_update_failed":       "更新用户失败",
		"error.preview_too_large":        "预览内容过大",
		"error.page_slug_invalid":        "页面标识仅支持小写字母、数字与连字符",
		"error.page_title_required":      "页面标题不能为空",
		"error.vip_check_failed":         "获取 VIP 状态失败",
	},
	LocaleTW: {
		"error.bad_request":              "請求參數錯誤",
		"error.unauthorized":             "未登入或登入已失效",
		"error.forbidden":                "沒有權限執行該操作",
		"error.internal_error":           "伺服器內部錯誤",
		"error.jwt_secret_missing":       "伺服端未設定 JWT 金鑰",
		"error.auth_header_missing":      "缺少 Authorization 請求標頭",
		"error.auth_header_invalid":      "Authorization 請求標頭格式錯誤",
		"error.token_invalid":            "登入憑證無效",
		"error.token_revoked":            "登入憑證已失效，請重新登入",
		"error.user_disabled":            "帳號已被停用",
		"error.login_failed":             "登入失敗",
		"error.admin_login_invalid":      "使用者名稱或密碼錯誤",
		"error.login_too_many":           "登入嘗試次數過多，請 %d 秒後重試",
		"error.rate_limited":             "請求過於頻繁，請 %d 秒後重試",
		"error.rate_limit_unavailable":   "限流服務暫不可用",
		"error.settings_fetch_failed":    "取得設定失敗",
		"error.settings_save_failed":     "儲存設定失敗",
		"error.user_not_found":           "使用者不存在",
		"error.affiliate_not_found":      "推廣帳號不存在",
		"error.affiliate_exists":         "該使用者已有推廣帳號",
		"error.affiliate_status_invalid": "推廣帳號狀態不合法",
		"error.affiliate_fetch_failed":   "取得推廣帳號失敗",
		"error.affiliate_create_failed":  "建立推廣帳號失敗",
		"error.affiliate_update_failed":  "更新推廣帳號失敗",
		"error.affiliate_delete_failed":  "刪除推廣帳號失敗",
		"error.vip_permission_denied":    "您沒有管理推廣帳號的權限",
		"error.vip_save_failed":          "儲存 VIP 標記失敗",
		"error.page_not_found":           "頁面不存在",
		"error.page_fetch_failed":        "取得頁面失敗",
		"error.page_create_failed":       "建立頁面失敗",
		"error.page_update_failed":       "更新頁面失敗",
		"error.page_delete_failed":       "刪除頁面失敗",
		"error.slug_exists":              "唯一識別已存在",
		"error.audit_fetch_failed":       "取得稽核日誌失敗",
		"error.authz_fetch_failed":       "取得權限設定失敗",
		"error.authz_update_failed":      "更新權限設定失敗",
		"error.login_invalid":            "信箱或密碼錯誤",
		"error.email_invalid":            "信箱格式不正確",
		"error.admin_id_invalid":         "管理員身分無效",
		"error.admin_id_type_invalid":    "管理員身分類型錯誤",
		"error.admin_not_found":          "管理員不存在",
		"error.user_id_invalid":          "使用者身分無效",
		"error.user_id_type_invalid":     "使用者身分類型錯誤",
		"error.user_fetch_failed":        "取得使用者失敗",
		"error.user_status_invalid":      "使用者狀態不合法",
		"error.user_update_failed":       "更新使用者失敗",
		"error.preview_too_large":        "預覽內容過大",
		"error.page_slug_invalid":        "頁面標識僅支援小寫字母、數字與連字號",
		"error.page_title_required":      "頁面標題不能為空",
		"error.vip_check_failed":         "取得 VIP 狀態失敗",
	},
	LocaleEN: {
		"error.bad_request":              "Invalid request parameters",
		"error.unauthorized":             "Not signed in or session expired",
		"error.forbidden":                "You are not allowed to perform this action",
		"error.internal_error":           "Internal server error",
		"error.jwt_secret_missing":       "JWT secret is not configured",
		"error.auth_header_missing":      "Missing Authorization header",
		"error.auth_header_invalid":      "Malformed Authorization header",
		"error.token_invalid":            "Invalid token",
		"error.token_revoked":            "Token has been revoked, please sign in again",
		"error.user_disabled":            "Account is disabled",
		"error.login_failed":             "Login failed",
		"error.admin_login_invalid":      "Incorrect username or password",
		"error.login_too_many":           "Too many login attempts, retry in %d seconds",
		"error.rate_limited":             "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiter is unavailable",
		"error.settings_fetch_failed":    "Failed to load settings",
		"error.settings_save_failed":     "Failed to save settings",
		"error.user_not_found":           "User not found",
		"error.affiliate_not_found":      "Affiliate not found",
		"error.affiliate_exists":         "The user already has an affiliate account",
		"error.affiliate_status_invalid": "Invalid affiliate status",
		"error.affiliate_fetch_failed":   "Failed to load affiliate",
		"error.affiliate_create_failed":  "Failed to create affiliate",
		"error.affiliate_update_failed":  "Failed to update affiliate",
		"error.affiliate_delete_failed":  "Failed to delete affiliate",
		"error.vip_permission_denied":    "You do not have permission to manage affiliates",
		"error.vip_save_failed":          "Failed to save VIP flag",
		"error.page_not_found":           "Page not found",
		"error.page_fetch_failed":        "Failed to load page",
		"error.page_create_failed":       "Failed to create page",
		"error.page_update_failed":       "Failed to update page",
		"error.page_delete_failed":       "Failed to delete page",
		"error.slug_exists":              "Slug already exists",
		"error.audit_fetch_failed":       "Failed to load audit logs",
		"error.authz_fetch_failed":       "Failed to load permissions",
		"error.authz_update_failed":      "Failed to update permissions",
		"error.login_invalid":            "Invalid email or password",
		"error.email_invalid":            "Invalid email address",
		"error.admin_id_invalid":         "Invalid admin identity",
		"error.admin_id_type_invalid":    "Invalid admin identity type",
		"error.admin_not_found":          "Admin not found",
		"error.user_id_invalid":          "Invalid user identity",
		"error.user_id_type_invalid":     "Invalid user identity type",
		"error.user_fetch_failed":        "Failed to fetch user",
		"error.user_status_invalid":      "Invalid user status",
		"error.user_update_failed":       "Failed to update user",
		"error.preview_too_large":        "Preview content is too large",
		"error.page_slug_invalid":        "Page slug may only contain lowercase letters, digits and hyphens",
		"error.page_title_required":      "Page title is required",
		"error.vip_check_failed":         "Failed to check VIP status",
	},
}
