package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryFixture() (*CategoryUseCase, *memStore, *fakeOutbox) {
	store := newMemStore()
	outbox := &fakeOutbox{}
	uc := NewCategoryUC(fakeCategoryRepo{store}, outbox, &fakeTxManager{}, logger.NewNop())
	return uc, store, outbox
}

func TestCategoryCreate(t *testing.T) {
	uc, store, outbox := newCategoryFixture()
	store.addCategory("root", "Books", nil)

	created, err := uc.Create(context.Background(), &CreateCategoryReq{Name: "  Novels ", ParentID: ptr(" root ")})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Novels", created.Name)
	require.NotNil(t, created.ParentID)
	assert.Equal(t, "root", *created.ParentID)
	assert.Equal(t, []OutboxEventType{CategoryUpserted}, outbox.types())
}

func TestCategoryCreate_Validation(t *testing.T) {
	uc, _, outbox := newCategoryFixture()

	_, err := uc.Create(context.Background(), &CreateCategoryReq{Name: "   "})
	assert.ErrorIs(t, err, e.ErrNameRequired)

	_, err = uc.Create(context.Background(), &CreateCategoryReq{Name: "Novels", ParentID: ptr("missing")})
	assert.ErrorIs(t, err, e.ErrParentNotFound)

	assert.Empty(t, outbox.types())
}

func TestCategoryCreate_BlankParentIsRoot(t *testing.T) {
	uc, _, _ := newCategoryFixture()

	created, err := uc.Create(context.Background(), &CreateCategoryReq{Name: "Books", ParentID: ptr("")})

	require.NoError(t, err)
	assert.Nil(t, created.ParentID)
}

func TestCategoryUpdate(t *testing.T) {
	uc, store, _ := newCategoryFixture()
	store.addCategory("root", "Books", nil)
	store.addCategory("c1", "Novels", ptr("root"))

	t.Run("rename keeps parent", func(t *testing.T) {
		updated, err := uc.Update(context.Background(), &UpdateCategoryReq{ID: "c1", Name: ptr("Fiction")})
		require.NoError(t, err)
		assert.Equal(t, "Fiction", updated.Name)
		require.NotNil(t, updated.ParentID)
		assert.Equal(t, "root", *updated.ParentID)
	})

	t.Run("blank name is ignored", func(t *testing.T) {
		updated, err := uc.Update(context.Background(), &UpdateCategoryReq{ID: "c1", Name: ptr("  ")})
		require.NoError(t, err)
		assert.Equal(t, "Fiction", updated.Name)
	})

	t.Run("empty parent detaches", func(t *testing.T) {
		updated, err := uc.Update(context.Background(), &UpdateCategoryReq{ID: "c1", ParentSet: true, ParentID: ptr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.ParentID)
	})
}

func TestCategoryUpdate_Errors(t *testing.T) {
	uc, store, _ := newCategoryFixture()
	store.addCategory("c1", "Novels", nil)

	tests := []struct {
		name string
		req  *UpdateCategoryReq
		want error
	}{
		{"missing id", &UpdateCategoryReq{Name: ptr("x")}, e.ErrIDRequired},
		{"self parent", &UpdateCategoryReq{ID: "c1", ParentSet: true, ParentID: ptr("c1")}, e.ErrSelfParent},
		{"unknown parent", &UpdateCategoryReq{ID: "c1", ParentSet: true, ParentID: ptr("nope")}, e.ErrParentNotFound},
		{"unknown category", &UpdateCategoryReq{ID: "nope", Name: ptr("x")}, e.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Update(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCategoryDelete(t *testing.T) {
	uc, store, outbox := newCategoryFixture()
	store.addCategory("root", "Books", nil)
	store.addCategory("child", "Novels", ptr("root"))
	store.addCategory("full", "Pens", nil)
	store.addProduct(newTestProduct("p1", "full", "Pen", "1", "1"))
	store.addCategory("empty", "Empty", nil)

	assert.ErrorIs(t, uc.Delete(context.Background(), ""), e.ErrIDRequired)
	assert.ErrorIs(t, uc.Delete(context.Background(), "root"), e.ErrCategoryHasChildren)
	assert.ErrorIs(t, uc.Delete(context.Background(), "full"), e.ErrCategoryHasProducts)
	assert.ErrorIs(t, uc.Delete(context.Background(), "ghost"), e.ErrCategoryNotFound)

	require.NoError(t, uc.Delete(context.Background(), "empty"))
	assert.NotContains(t, store.categories, "empty")
	assert.Equal(t, []OutboxEventType{CategoryDeleted}, outbox.types())
}

func TestCategoryGetAndList(t *testing.T) {
	uc, store, _ := newCategoryFixture()
	store.addCategory("root", "Books", nil)
	store.addCategory("b", "Poetry", ptr("root"))
	store.addCategory("a", "Novels", ptr("root"))
	store.addProduct(newTestProduct("p1", "a", "Novel", "1", "1"))

	details, err := uc.Get(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, 2, details.Category.Counts.Children)
	require.Len(t, details.Children, 2)
	assert.Equal(t, "Novels", details.Children[0].Name)
	assert.Equal(t, 1, details.Children[0].Counts.Products)

	_, err = uc.Get(context.Background(), "!!!")
	assert.ErrorIs(t, err, e.ErrCategoryNotFound)

	roots, err := uc.List(context.Background(), &ListCategoriesReq{})
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "root", roots[0].ID)

	all, err := uc.List(context.Background(), &ListCategoriesReq{All: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	children, err := uc.List(context.Background(), &ListCategoriesReq{ParentID: ptr("root")})
	require.NoError(t, err)
	assert.Len(t, children, 2)
}
