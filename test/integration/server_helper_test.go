package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/sandeepkv93/storefront-crud-api/internal/config"
	"github.com/sandeepkv93/storefront-crud-api/internal/database"
	"github.com/sandeepkv93/storefront-crud-api/internal/health"
	"github.com/sandeepkv93/storefront-crud-api/internal/http/handler"
	"github.com/sandeepkv93/storefront-crud-api/internal/http/router"
	"github.com/sandeepkv93/storefront-crud-api/internal/repository"
	"github.com/sandeepkv93/storefront-crud-api/internal/service"
)

type apiEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Errors  []fieldError    `json:"errors"`
}

type fieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

type testServerOptions struct {
	databaseURL string
	cfgOverride func(cfg *config.Config)
}

func newSQLiteDatabaseURL(t *testing.T) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
}

func newStorefrontTestServer(t *testing.T) (string, *http.Client, *gorm.DB) {
	return newStorefrontTestServerWithOptions(t, testServerOptions{})
}

func newStorefrontTestServerWithOptions(t *testing.T, opts testServerOptions) (string, *http.Client, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{
		DatabaseURL:        opts.databaseURL,
		DatabaseLogLevel:   "silent",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		HTTPBodyLimitBytes: 1 << 20,
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = newSQLiteDatabaseURL(t)
	}
	if opts.cfgOverride != nil {
		opts.cfgOverride(cfg)
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if database.DriverFor(cfg.DatabaseURL) == database.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := router.NewRouter(router.Dependencies{
		ProductHandler: handler.NewProductHandler(service.NewProductService(repository.NewProductRepository(db))),
		UserHandler:    handler.NewUserHandler(service.NewUserService(repository.NewUserRepository(db))),
		CORSOrigins:    cfg.CORSAllowedOrigins,
		BodyLimitBytes: cfg.HTTPBodyLimitBytes,
		Readiness:      health.NewProbeRunner(0, 0, health.NewDBChecker(db), health.NewSchemaChecker(db)),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.Close()
		_ = sqlDB.Close()
	})
	return srv.URL, srv.Client(), db
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, apiEnvelope, string) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if raw, ok := body.(string); ok {
			payload = []byte(raw)
		} else if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)

	var env apiEnvelope
	if buf.Len() > 0 {
		_ = json.Unmarshal(buf.Bytes(), &env)
	}
	return resp, env, buf.String()
}

func decodeInto(t *testing.T, raw []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode %s: %v", string(raw), err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int, body string) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d body=%s", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, body)
	}
}
