package authz

import (
	"errors"
	"fmt"
	"strings"
)

const (
	apiV1Prefix      = "/api/v1"
	casbinTableName  = "casbin_rule"
	rolePrefix       = "role:"
	roleAnchor       = "role:__anchor__"
	capabilityPrefix = "/capabilities/"

	// ActionUseCapability 能力策略的动作
	ActionUseCapability = "USE"
)

// rbacModel 主体可直接持有策略，也可通过 g 继承角色；对象按 keyMatch2 匹配路由模式
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

var (
	errUnavailable    = errors.New("authz service unavailable")
	errRoleRequired   = errors.New("role is required")
	errActionRequired = errors.New("action is required")
	errReservedRole   = errors.New("reserved role is not allowed")
)

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

func policyFromRule(rule []string) (Policy, bool) {
	if len(rule) < 3 {
		return Policy{}, false
	}
	return Policy{
		Subject: strings.TrimSpace(rule[0]),
		Object:  NormalizeObject(rule[1]),
		Action:  NormalizeAction(rule[2]),
	}, true
}

// SubjectForAdmin 管理员在策略中的主体标识
func SubjectForAdmin(adminID uint) string {
	return fmt.Sprintf("admin:%d", adminID)
}

// CapabilityObject 能力名映射为 /capabilities/<name>，拒绝含路由通配的名称
func CapabilityObject(capability string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(capability))
	if name == "" || strings.ContainsAny(name, "/:* ") {
		return "", fmt.Errorf("invalid capability: %q", capability)
	}
	return capabilityPrefix + name, nil
}

// NormalizeRole 补齐 role: 前缀，空格替换为下划线
func NormalizeRole(role string) (string, error) {
	name := strings.ReplaceAll(strings.TrimSpace(role), " ", "_")
	name = strings.TrimPrefix(name, rolePrefix)
	if name == "" {
		return "", errRoleRequired
	}
	return rolePrefix + name, nil
}

func isVisibleRole(role string) bool {
	return strings.HasPrefix(role, rolePrefix) && role != roleAnchor
}

// NormalizeObject 去掉 /api/v1 前缀，使策略与路由模式一致
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	switch {
	case path == apiV1Prefix:
		return "/"
	case strings.HasPrefix(path, apiV1Prefix+"/"):
		return strings.TrimPrefix(path, apiV1Prefix)
	default:
		return path
	}
}

// NormalizeAction HTTP 方法统一大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
