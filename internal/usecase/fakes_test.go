package usecase

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// memStore — хранилище каталога в памяти для тестов usecase.
type memStore struct {
	mu         sync.Mutex
	categories map[string]*domain.Category
	products   []*domain.Product
	settings   *domain.ShopSettings
	clock      time.Time

	childLookups int
	searches     int
	childErr     error
	searchErr    error
}

func newMemStore() *memStore {
	return &memStore{
		categories: make(map[string]*domain.Category),
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) addCategory(id, name string, parentID *string) {
	m.categories[id] = &domain.Category{ID: id, Name: name, ParentID: parentID, CreatedAt: m.tick()}
}

func (m *memStore) addProduct(p *domain.Product) {
	p.CreatedAt = m.tick()
	m.products = append(m.products, p)
}

func (m *memStore) counts(id string) domain.CategoryCounts {
	var counts domain.CategoryCounts
	for _, c := range m.categories {
		if c.ParentID != nil && *c.ParentID == id {
			counts.Children++
		}
	}
	for _, p := range m.products {
		if p.CategoryID == id {
			counts.Products++
		}
	}
	return counts
}

// CATALOG

type fakeCatalogRepo struct{ *memStore }

func (f fakeCatalogRepo) Search(_ context.Context, pred domain.Predicate, limit, offset int) ([]domain.CatalogProduct, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.searches++
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}

	var matched []*domain.Product
	for _, p := range f.products {
		if pred.Matches(p) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := min(offset, total)
	end := min(start+limit, total)

	items := make([]domain.CatalogProduct, 0, end-start)
	for _, p := range matched[start:end] {
		var name string
		if c, ok := f.categories[p.CategoryID]; ok {
			name = c.Name
		}
		items = append(items, domain.CatalogProduct{Product: *p, Category: domain.CategoryRef{ID: p.CategoryID, Name: name}})
	}

	return items, total, nil
}

func (f fakeCatalogRepo) CountProducts(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products), nil
}

// CATEGORIES

type fakeCategoryRepo struct{ *memStore }

func (f fakeCategoryRepo) ChildIDs(_ context.Context, parentID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.childLookups++
	if f.childErr != nil {
		return nil, f.childErr
	}
	var ids []string
	for _, c := range f.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			ids = append(ids, c.ID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (f fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.categories[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (f fakeCategoryRepo) GetWithCounts(_ context.Context, id string) (*domain.CategoryWithCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.categories[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	return &domain.CategoryWithCounts{Category: *c, Counts: f.counts(id)}, nil
}

func (f fakeCategoryRepo) List(_ context.Context, filter CategoryListFilter) ([]domain.CategoryWithCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []domain.CategoryWithCounts
	for _, c := range f.categories {
		switch {
		case filter.All:
		case filter.ParentID != nil:
			if c.ParentID == nil || *c.ParentID != *filter.ParentID {
				continue
			}
		default:
			if c.ParentID != nil {
				continue
			}
		}
		res = append(res, domain.CategoryWithCounts{Category: *c, Counts: f.counts(c.ID)})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (f fakeCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *c
	cp.CreatedAt = f.tick()
	cp.UpdatedAt = cp.CreatedAt
	f.categories[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f fakeCategoryRepo) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.categories[c.ID]; !ok {
		return nil, e.ErrCategoryNotFound
	}
	cp := *c
	cp.UpdatedAt = f.tick()
	f.categories[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f fakeCategoryRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.categories[id]; !ok {
		return e.ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

// PRODUCTS

type fakeProductRepo struct{ *memStore }

func (f fakeProductRepo) find(id string) int {
	return slices.IndexFunc(f.products, func(p *domain.Product) bool { return p.ID == id })
}

func (f fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.find(id)
	if i < 0 {
		return nil, e.ErrProductNotFound
	}
	cp := *f.products[i]
	return &cp, nil
}

func (f fakeProductRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []domain.Product
	for _, p := range f.products {
		if slices.Contains(ids, p.ID) {
			res = append(res, *p)
		}
	}
	return res, nil
}

func (f fakeProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *p
	cp.CreatedAt = f.tick()
	f.products = append(f.products, &cp)
	out := cp
	return &out, nil
}

func (f fakeProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.find(p.ID)
	if i < 0 {
		return nil, e.ErrProductNotFound
	}
	cp := *p
	cp.UpdatedAt = f.tick()
	f.products[i] = &cp
	out := cp
	return &out, nil
}

func (f fakeProductRepo) Delete(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.find(id)
	if i < 0 {
		return nil, e.ErrProductNotFound
	}
	deleted := *f.products[i]
	f.products = slices.Delete(f.products, i, i+1)
	return &deleted, nil
}

// SHOP SETTINGS

type fakeSettingsRepo struct{ *memStore }

func (f fakeSettingsRepo) Get(context.Context) (*domain.ShopSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.settings == nil {
		return nil, nil
	}
	cp := *f.settings
	return &cp, nil
}

func (f fakeSettingsRepo) Upsert(_ context.Context, s *domain.ShopSettings) (*domain.ShopSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *s
	cp.UpdatedAt = f.tick()
	f.settings = &cp
	out := cp
	return &out, nil
}

// OUTBOX

type fakeOutbox struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (f *fakeOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutbox) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkAsProcessed(context.Context, int64) error { return nil }

func (f *fakeOutbox) ResetStuck(context.Context, time.Duration) (int64, error) { return 0, nil }

func (f *fakeOutbox) types() []OutboxEventType {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := make([]OutboxEventType, 0, len(f.events))
	for _, ev := range f.events {
		res = append(res, ev.EventType)
	}
	return res
}

// TRANSACTIONS

type fakeTxManager struct {
	calls        int
	withSettings int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func (f *fakeTxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	f.withSettings++
	return fn(ctx)
}

// IMAGES

type fakeImages struct {
	mu       sync.Mutex
	uploads  []*UploadImageReq
	cleanups []string
}

func (f *fakeImages) UploadImage(_ context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploads = append(f.uploads, req)
	return NewUploadImageRes(req.Path, "http://cdn.test/images/"+req.Path), nil
}

func (f *fakeImages) CleanupImages(urls []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cleanups = append(f.cleanups, urls...)
}
