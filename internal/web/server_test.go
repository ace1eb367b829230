package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/brandadmin/internal/config"
	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/grid"
	"github.com/JonMunkholm/brandadmin/internal/i18n"
	"github.com/JonMunkholm/brandadmin/internal/logs"
	"github.com/JonMunkholm/brandadmin/internal/session"
)

const testSID = "7f3c1d2e-4b5a-4c6d-8e9f-0a1b2c3d4e5f"

var testNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

type fakeGrid struct {
	def     grid.Definition
	records []grid.Record
	err     error
	got     []grid.Filters
}

func (f *fakeGrid) Definition() grid.Definition { return f.def }

func (f *fakeGrid) GetGrid(_ context.Context, filters grid.Filters) (*grid.Grid, error) {
	f.got = append(f.got, filters)
	if f.err != nil {
		return nil, f.err
	}
	return &grid.Grid{Definition: f.def, Filters: filters, Records: f.records, TotalCount: len(f.records)}, nil
}

type fakeLogs struct {
	entries   []logs.EmployeeEntry
	deleteErr error
	deleted   bool
	got       []logs.Filters
}

func (f *fakeLogs) FindAllWithEmployeeInformation(_ context.Context, lf logs.Filters) ([]logs.EmployeeEntry, error) {
	f.got = append(f.got, lf)
	return f.entries, nil
}

func (f *fakeLogs) FindAllWithEmployeeInformationQuery(lf logs.Filters) string {
	return "SELECT * FROM ps_log l WHERE l.message ILIKE '%" + lf.Filters["message"] + "%'"
}

func (f *fakeLogs) Count(context.Context, logs.Filters) (int, error) { return len(f.entries), nil }

func (f *fakeLogs) DeleteAll(context.Context) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleted = true
	return int64(len(f.entries)), nil
}

type testEnv struct {
	t         *testing.T
	cfg       *config.Config
	bus       *core.Bus
	store     *session.Store
	brands    *fakeGrid
	addresses *fakeGrid
	logs      *fakeLogs
	settings  core.StaticSettings
	srv       *Server
}

// newTestEnv builds a server over fakes. Handlers are registered on env.bus
// before the first request.
func newTestEnv(t *testing.T, configure ...func(*config.Config)) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{}
	cfg.Server.RequestTimeout = time.Minute
	cfg.Security.Permissions = allPermissions
	cfg.Security.EmployeeID = 1
	cfg.Catalog.UploadMaxSize = 1024
	cfg.Catalog.ImageDir = "img/m"
	cfg.Logs.PageSize = 50
	for _, fn := range configure {
		fn(cfg)
	}

	catalog, err := i18n.NewCatalog("en")
	require.NoError(t, err)
	i18n.LoadDefaults(catalog)

	env := &testEnv{
		t:         t,
		cfg:       cfg,
		bus:       core.NewBus(),
		store:     session.NewStore(client, time.Hour),
		brands:    &fakeGrid{def: grid.ManufacturerDefinition(50)},
		addresses: &fakeGrid{def: grid.ManufacturerAddressDefinition(50)},
		logs:      &fakeLogs{},
		settings:  core.StaticSettings{core.SettingDisplayManufacturers: true, core.SettingStockManagement: true},
	}
	env.srv, err = NewServer(cfg, Deps{
		Bus:       env.bus,
		Brands:    env.brands,
		Addresses: env.addresses,
		Logs:      env.logs,
		Sessions:  env.store,
		I18n:      catalog,
		Settings:  env.settings,
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return env
}

func (e *testEnv) request(method, target string, body url.Values, header ...string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		rdr = strings.NewReader(body.Encode())
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: testSID})

	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(target string, header ...string) *httptest.ResponseRecorder {
	return e.request(http.MethodGet, target, nil, header...)
}

func (e *testEnv) post(target string, body url.Values) *httptest.ResponseRecorder {
	if body == nil {
		body = url.Values{}
	}
	return e.request(http.MethodPost, target, body)
}

// upload posts fields plus one file as multipart/form-data.
func (e *testEnv) upload(target string, fields url.Values, fileField string, content []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(e.t, mw.WriteField(k, v))
		}
	}
	part, err := mw.CreateFormFile(fileField, "upload.bin")
	require.NoError(e.t, err)
	_, err = part.Write(content)
	require.NoError(e.t, err)
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: testSID})

	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) flashes() []session.Flash {
	e.t.Helper()
	f, err := e.store.PopFlashes(context.Background(), testSID)
	require.NoError(e.t, err)
	return f
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, want, rec.Header().Get("Location"))
}

func TestRouteURL(t *testing.T) {
	tests := []struct {
		name   string
		route  string
		params []string
		want   string
	}{
		{"static", routeBrandIndex, nil, "/sell/catalog/brands"},
		{"path param", routeBrandEdit, []string{"manufacturerId", "42"}, "/sell/catalog/brands/42/edit"},
		{"address param", routeAddressEdit, []string{"addressId", "7"}, "/sell/catalog/brands/addresses/7/edit"},
		{"leftover becomes query", routeBrandIndex, []string{"tab", "addresses"}, "/sell/catalog/brands?tab=addresses"},
		{"unknown route", "nope", nil, "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routeURL(tt.route, tt.params...))
		})
	}
}

func TestServer_SecurityHeaders(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Security.EnableCSP = true })

	rec := env.get("/static/admin.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestServer_RootRedirectsToBrands(t *testing.T) {
	env := newTestEnv(t)
	assertRedirect(t, env.get("/"), "/sell/catalog/brands")
}

func TestServer_ForbiddenWithoutRedirect(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Security.Permissions = nil })

	rec := env.get("/sell/catalog/brands")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.brands.got)
}

func TestServer_DeniedFlashesAndRedirects(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Security.Permissions = []string{permRead} })
	core.Handle(env.bus, func(context.Context, core.DeleteManufacturer) (core.Void, error) {
		t.Error("delete dispatched without permission")
		return core.Void{}, nil
	})

	rec := env.post("/sell/catalog/brands/3/delete", nil)
	assertRedirect(t, rec, "/sell/catalog/brands")
	assert.Equal(t, []session.Flash{{Type: session.FlashError, Message: "Access denied."}}, env.flashes())
}

func TestServer_DemoModeDisablesDestructiveActions(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Security.DemoMode = true })
	core.Handle(env.bus, func(context.Context, core.DeleteManufacturer) (core.Void, error) {
		t.Error("delete dispatched in demo mode")
		return core.Void{}, nil
	})

	assertRedirect(t, env.post("/sell/catalog/brands/3/delete", nil), "/sell/catalog/brands")
	assert.Equal(t, []session.Flash{{Type: session.FlashError, Message: "This functionality has been disabled."}}, env.flashes())

	assertRedirect(t, env.get("/sell/catalog/brands/export"), "/sell/catalog/brands")
}

func TestServer_TranslatesFlashes(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Security.DemoMode = true })

	env.request(http.MethodPost, "/sell/catalog/brands/3/delete", url.Values{}, "Accept-Language", "fr-FR,fr;q=0.9")
	assert.Equal(t, []session.Flash{{Type: session.FlashError, Message: "Cette fonctionnalité a été désactivée."}}, env.flashes())
}

func TestServer_ListingFailureJSON(t *testing.T) {
	env := newTestEnv(t)
	env.brands.err = errors.New("dial tcp: connection refused")

	rec := env.get("/sell/catalog/brands", "Accept", "application/json")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"DB004"`)
	assert.NotContains(t, rec.Body.String(), "dial tcp")
}
