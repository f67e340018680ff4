package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/models"
	"github.com/vip-affiliates/internal/provider"
	"github.com/vip-affiliates/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestDeriveAdminPermissionModule(t *testing.T) {
	cases := []struct {
		object string
		want   string
	}{
		{object: "", want: "system"},
		{object: "/admin", want: "admin"},
		{object: "/admin/affiliates/:id/vip", want: "affiliates"},
		{object: "/admin/vip-audit-logs", want: "affiliates"},
		{object: "/admin/settings/vip", want: "settings"},
		{object: "/admin/authz/roles", want: "authz"},
		{object: "/public/pages", want: "public"},
	}
	for _, tc := range cases {
		t.Run(tc.object, func(t *testing.T) {
			if got := deriveAdminPermissionModule(tc.object); got != tc.want {
				t.Fatalf("want %s got %s", tc.want, got)
			}
		})
	}
}

type routerFixture struct {
	engine      *gin.Engine
	db          *gorm.DB
	affiliateID uint
}

func setupRouterTest(t *testing.T) routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	previous := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = previous })

	hash, err := service.HashPassword("router-pass")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admins := []models.Admin{
		{Username: "root", PasswordHash: hash, IsSuper: true},
		{Username: "editor", PasswordHash: hash},
	}
	for i := range admins {
		if err := db.Create(&admins[i]).Error; err != nil {
			t.Fatalf("seed admin failed: %v", err)
		}
	}
	user := models.User{Email: "router_user@example.com", PasswordHash: hash, Status: constants.UserStatusActive}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	profile := models.AffiliateProfile{UserID: user.ID, Status: "active"}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed affiliate failed: %v", err)
	}

	cfg := testAuthConfig()
	cfg.Server.Mode = "debug"
	cfg.Security.LoginRateLimit = config.LoginRateLimitConfig{WindowSeconds: 300, MaxAttempts: 5}
	c := provider.NewContainer(cfg)
	if err := c.AuthzService.SetAdminRoles(admins[1].ID, []string{"content_editor"}); err != nil {
		t.Fatalf("set editor roles failed: %v", err)
	}

	return routerFixture{engine: SetupRouter(cfg, c), db: db, affiliateID: profile.ID}
}

func routerRequest(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		raw = encoded
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func adminLogin(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()
	w := routerRequest(t, engine, http.MethodPost, "/api/v1/admin/login", "", gin.H{"username": username, "password": "router-pass"})
	var resp struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login failed: %v", err)
	}
	if resp.StatusCode != 0 || resp.Data.Token == "" {
		t.Fatalf("login %s failed: %s", username, w.Body.String())
	}
	return resp.Data.Token
}

func TestRouterAdminVIPRouteAuthorization(t *testing.T) {
	f := setupRouterTest(t)
	rootToken := adminLogin(t, f.engine, "root")
	editorToken := adminLogin(t, f.engine, "editor")
	path := fmt.Sprintf("/api/v1/admin/affiliates/%d/vip", f.affiliateID)

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{name: "no token", token: "", want: 401},
		{name: "editor lacks route policy", token: editorToken, want: 403},
		{name: "super admin", token: rootToken, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := routerRequest(t, f.engine, http.MethodPut, path, tc.token, gin.H{"vip_affiliate": "yes"})
			if got := decodeStatusCode(t, w); got != tc.want {
				t.Fatalf("status_code want %d got %d body=%s", tc.want, got, w.Body.String())
			}
		})
	}

	var meta models.AffiliateMeta
	if err := f.db.Where("affiliate_id = ?", f.affiliateID).First(&meta).Error; err != nil {
		t.Fatalf("vip meta should be stored: %v", err)
	}
	if meta.MetaValue != constants.VIPValueYes {
		t.Fatalf("meta value want yes got %s", meta.MetaValue)
	}

	w := routerRequest(t, f.engine, http.MethodGet, "/api/v1/admin/pages", editorToken, nil)
	if got := decodeStatusCode(t, w); got != 0 {
		t.Fatalf("editor should read pages, got %d", got)
	}
}

func TestRouterPermissionCatalog(t *testing.T) {
	f := setupRouterTest(t)
	token := adminLogin(t, f.engine, "root")

	w := routerRequest(t, f.engine, http.MethodGet, "/api/v1/admin/authz/permissions/catalog", token, nil)
	var resp struct {
		Data []adminPermissionCatalogItem `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode catalog failed: %v", err)
	}
	found := false
	for _, item := range resp.Data {
		if item.Object == "/admin/login" {
			t.Fatalf("login route should not be in catalog")
		}
		if item.Permission == "PUT:/admin/affiliates/:id/vip" {
			found = true
			if item.Module != "affiliates" {
				t.Fatalf("vip route module want affiliates got %s", item.Module)
			}
		}
	}
	if !found {
		t.Fatalf("catalog should contain vip route, got %+v", resp.Data)
	}
}

func TestRouterPublicRoutes(t *testing.T) {
	f := setupRouterTest(t)

	health := routerRequest(t, f.engine, http.MethodGet, "/health", "", nil)
	if health.Code != http.StatusOK || !strings.Contains(health.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", health.Code, health.Body.String())
	}

	render := routerRequest(t, f.engine, http.MethodPost, "/api/v1/public/render", "garbage-token", gin.H{"content": "plain"})
	if got := decodeStatusCode(t, render); got != 0 {
		t.Fatalf("render with invalid token should stay anonymous, got %d", got)
	}

	me := routerRequest(t, f.engine, http.MethodGet, "/api/v1/me/vip", "", nil)
	if got := decodeStatusCode(t, me); got != 401 {
		t.Fatalf("/me/vip without token want 401 got %d", got)
	}
}

func TestRouterPermissionCatalogIncludesCapabilities(t *testing.T) {
	items := buildAdminPermissionCatalog(nil)
	if len(items) != 1 {
		t.Fatalf("nil engine should list capabilities only, got %+v", items)
	}
	want := "USE:/capabilities/" + constants.CapabilityManageAffiliates
	if items[0].Permission != want || items[0].Module != "capabilities" {
		t.Fatalf("unexpected capability item %+v", items[0])
	}
}

func TestHealthReportsDatabase(t *testing.T) {
	f := setupRouterTest(t)
	w := routerRequest(t, f.engine, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"database":"ok"`) {
		t.Fatalf("unexpected health %d %s", w.Code, w.Body.String())
	}

	models.DB = nil
	w = routerRequest(t, f.engine, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), `"degraded"`) {
		t.Fatalf("health without database should degrade, got %d %s", w.Code, w.Body.String())
	}
}
