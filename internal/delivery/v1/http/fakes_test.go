package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type fakeCatalogUC struct {
	search func(q domain.FilterQuery) (*usecase.SearchRes, error)
	health func() (int, error)
	last   domain.FilterQuery
}

func (f *fakeCatalogUC) Search(_ context.Context, q domain.FilterQuery) (*usecase.SearchRes, error) {
	f.last = q
	if f.search == nil {
		return usecase.NewSearchRes(nil, 0, q.Limit, q.Offset), nil
	}
	return f.search(q)
}

func (f *fakeCatalogUC) Health(_ context.Context) (int, error) {
	if f.health == nil {
		return 0, nil
	}
	return f.health()
}

type fakeCategoryUC struct {
	list    func(req *usecase.ListCategoriesReq) ([]domain.CategoryWithCounts, error)
	get     func(id string) (*usecase.CategoryDetails, error)
	create  func(req *usecase.CreateCategoryReq) (*domain.Category, error)
	update  func(req *usecase.UpdateCategoryReq) (*domain.Category, error)
	delete  func(id string) error
	creates int
}

func (f *fakeCategoryUC) List(_ context.Context, req *usecase.ListCategoriesReq) ([]domain.CategoryWithCounts, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(req)
}

func (f *fakeCategoryUC) Get(_ context.Context, id string) (*usecase.CategoryDetails, error) {
	return f.get(id)
}

func (f *fakeCategoryUC) Create(_ context.Context, req *usecase.CreateCategoryReq) (*domain.Category, error) {
	f.creates++
	if f.create == nil {
		return domain.NewCategory("new", req.Name, req.Description, req.ImageURL, req.ParentID), nil
	}
	return f.create(req)
}

func (f *fakeCategoryUC) Update(_ context.Context, req *usecase.UpdateCategoryReq) (*domain.Category, error) {
	return f.update(req)
}

func (f *fakeCategoryUC) Delete(_ context.Context, id string) error {
	if f.delete == nil {
		return nil
	}
	return f.delete(id)
}

type fakeProductUC struct {
	create  func(req *usecase.CreateProductReq) (*domain.Product, error)
	update  func(req *usecase.UpdateProductReq) (*domain.Product, error)
	delete  func(id string) (*domain.Product, error)
	upload  func(req *usecase.UploadImageReq) (*usecase.UploadImageRes, error)
	creates int
}

func (f *fakeProductUC) Create(_ context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	f.creates++
	if f.create == nil {
		return domain.NewProduct("new", req.Name, req.CategoryID, req.ColorPrice, req.BWPrice, req.Description, req.ImageURL), nil
	}
	return f.create(req)
}

func (f *fakeProductUC) Update(_ context.Context, req *usecase.UpdateProductReq) (*domain.Product, error) {
	return f.update(req)
}

func (f *fakeProductUC) Delete(_ context.Context, id string) (*domain.Product, error) {
	return f.delete(id)
}

func (f *fakeProductUC) UploadImage(_ context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	return f.upload(req)
}

type fakeShopSettingsUC struct {
	settings *domain.ShopSettings
	updated  *usecase.UpdateShopSettingsReq
}

func (f *fakeShopSettingsUC) Get(_ context.Context) (*domain.ShopSettings, error) {
	return f.settings, nil
}

func (f *fakeShopSettingsUC) Update(_ context.Context, req *usecase.UpdateShopSettingsReq) (*domain.ShopSettings, error) {
	f.updated = req
	f.settings = &domain.ShopSettings{ID: domain.ShopSettingsID, ShopName: req.ShopName, UpdatedAt: time.Now()}
	return f.settings, nil
}

type fakeOrderUC struct {
	summary func(req *usecase.WhatsAppOrderReq) (*usecase.WhatsAppOrderRes, error)
}

func (f *fakeOrderUC) WhatsAppSummary(_ context.Context, req *usecase.WhatsAppOrderReq) (*usecase.WhatsAppOrderRes, error) {
	return f.summary(req)
}

// fakeAuthUC принимает только токен validToken.
type fakeAuthUC struct {
	session  *usecase.Session
	signedIn []string
	signOuts []string
}

const validToken = "valid-token"

func (f *fakeAuthUC) SignIn(_ context.Context, email, password string) (*usecase.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, e.ErrCredentialsRequired
	}
	if f.session == nil {
		return nil, e.ErrInvalidCredentials
	}
	f.signedIn = append(f.signedIn, email)
	return f.session, nil
}

func (f *fakeAuthUC) SignOut(_ context.Context, token string) error {
	f.signOuts = append(f.signOuts, token)
	return nil
}

func (f *fakeAuthUC) Authenticate(_ context.Context, token string) (*usecase.AccessClaims, error) {
	if token != validToken {
		return nil, e.Wrap("verify token", e.ErrUnauthorized)
	}
	return &usecase.AccessClaims{Subject: "admin-1", Email: "admin@example.com", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type testEnv struct {
	catalog  *fakeCatalogUC
	category *fakeCategoryUC
	product  *fakeProductUC
	settings *fakeShopSettingsUC
	order    *fakeOrderUC
	auth     *fakeAuthUC
	router   *chi.Mux
}

const testAdminPrefix = "admin"

func newTestEnv() *testEnv {
	env := &testEnv{
		catalog:  &fakeCatalogUC{},
		category: &fakeCategoryUC{},
		product:  &fakeProductUC{},
		settings: &fakeShopSettingsUC{},
		order:    &fakeOrderUC{},
		auth:     &fakeAuthUC{},
		router:   chi.NewRouter(),
	}

	log := logger.NewNop()
	authCfg := &cfg.AuthCfg{RefreshTTL: 24 * time.Hour}

	NewRouter(env.router, log).Init(&Handlers{
		Catalog:      NewCatalogHandler(env.catalog, log),
		Category:     NewCategoryHandler(env.category, log),
		Product:      NewProductHandler(env.product, log, 1<<10),
		ShopSettings: NewShopSettingsHandler(env.settings, log),
		Order:        NewOrderHandler(env.order, log),
		Auth:         NewAuthHandler(env.auth, authCfg, log),
		Admin:        RequireAdmin(env.auth, log),
	}, &cfg.AdminCfg{PathPrefix: testAdminPrefix}, &cfg.HTTPConfig{SwaggerURL: "/swagger/doc.json"})

	return env
}

func (env *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doAdmin(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/v1/"+testAdminPrefix+path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+validToken)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}
