package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/vip-affiliates/internal/authz"
	"github.com/vip-affiliates/internal/constants"

	"github.com/gin-gonic/gin"
)

const (
	adminRoutePrefix = "/api/v1/admin/"
	adminLoginPath   = "/api/v1/admin/login"
	capabilityModule = "capabilities"
)

// 可授予的能力，与路由策略一起出现在目录中
var grantableCapabilities = []string{constants.CapabilityManageAffiliates}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func newCatalogItem(method, object string) adminPermissionCatalogItem {
	module := capabilityModule
	if method != authz.ActionUseCapability {
		module = deriveAdminPermissionModule(object)
	}
	return adminPermissionCatalogItem{
		Module:     module,
		Method:     method,
		Object:     object,
		Permission: method + ":" + object,
	}
}

// catalogRoute 过滤出需要授权的后台路由
func catalogRoute(route gin.RouteInfo) (adminPermissionCatalogItem, bool) {
	method := strings.ToUpper(strings.TrimSpace(route.Method))
	switch method {
	case "", http.MethodOptions, http.MethodHead:
		return adminPermissionCatalogItem{}, false
	}
	if route.Path == adminLoginPath || !strings.HasPrefix(route.Path, adminRoutePrefix) {
		return adminPermissionCatalogItem{}, false
	}
	return newCatalogItem(method, authz.NormalizeObject(route.Path)), true
}

// buildAdminPermissionCatalog 已注册后台路由加上能力策略，按模块、对象、方法排序
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	items := make([]adminPermissionCatalogItem, 0)
	seen := make(map[string]bool)
	add := func(item adminPermissionCatalogItem) {
		if seen[item.Permission] {
			return
		}
		seen[item.Permission] = true
		items = append(items, item)
	}

	if engine != nil {
		for _, route := range engine.Routes() {
			if item, ok := catalogRoute(route); ok {
				add(item)
			}
		}
	}
	for _, capability := range grantableCapabilities {
		object, err := authz.CapabilityObject(capability)
		if err != nil {
			continue
		}
		add(newCatalogItem(authz.ActionUseCapability, object))
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if a.Object != b.Object {
			return a.Object < b.Object
		}
		return a.Method < b.Method
	})
	return items
}

// deriveAdminPermissionModule /admin/settings/vip -> settings，/admin/vip-audit-logs 归入 affiliates
func deriveAdminPermissionModule(object string) string {
	segments := strings.Split(strings.Trim(strings.TrimSpace(object), "/"), "/")
	switch {
	case segments[0] == "":
		return "system"
	case segments[0] != "admin" || len(segments) == 1:
		return segments[0]
	case segments[1] == "vip-audit-logs":
		return "affiliates"
	default:
		return segments[1]
	}
}
