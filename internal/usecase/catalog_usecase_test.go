package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

type catalogFixture struct {
	products *MockProductRepo
	orders   *MockOrderRepo
	cache    *MockCacheRepo
	uc       *CatalogUseCase
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		products: new(MockProductRepo),
		orders:   new(MockOrderRepo),
		cache:    new(MockCacheRepo),
	}
	f.uc = NewCatalogUC(f.products, f.orders, f.cache, nopLogger{})
	return f
}

func TestGetProduct_CacheHit(t *testing.T) {
	f := newCatalogFixture()

	f.cache.On("GetProducts", mock.Anything, []int64{1}).
		Return(map[int64]ProductView{1: {ID: 1, Name: "Widget", Stock: 5}}, nil).Once()

	view, err := f.uc.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	require.Equal(t, "Widget", view.Name)
	f.products.AssertNotCalled(t, "GetView", mock.Anything, mock.Anything)
}

func TestGetProduct_CacheMissFillsInBackground(t *testing.T) {
	f := newCatalogFixture()

	cached := make(chan struct{})
	f.cache.On("GetProducts", mock.Anything, []int64{1}).
		Return(map[int64]ProductView{}, nil).Once()
	f.products.On("GetView", mock.Anything, int64(1)).
		Return(&ProductView{ID: 1, Name: "Widget"}, nil).Once()
	f.cache.On("SetProducts", mock.Anything, mock.AnythingOfType("[]usecase.ProductView")).
		Run(func(mock.Arguments) { close(cached) }).
		Return(nil).Once()

	view, err := f.uc.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	require.Equal(t, int64(1), view.ID)

	select {
	case <-cached:
	case <-time.After(time.Second):
		t.Fatal("expected background cache fill")
	}
	f.cache.AssertExpectations(t)
}

func TestQueryProducts_Validation(t *testing.T) {
	f := newCatalogFixture()

	min := int64(500)
	max := int64(100)

	tests := []struct {
		name    string
		filter  *ProductFilter
		sort    SortParams
		page    PageParams
		wantErr error
	}{
		{
			name:    "bad page",
			filter:  &ProductFilter{},
			page:    PageParams{Page: 0, Limit: 20},
			wantErr: e.ErrInvalidPage,
		},
		{
			name:    "unknown sort field",
			filter:  &ProductFilter{},
			sort:    SortParams{Field: "rating"},
			page:    PageParams{Page: 1, Limit: 20},
			wantErr: e.ErrInvalidSortField,
		},
		{
			name:    "inverted price range",
			filter:  &ProductFilter{PriceMin: &min, PriceMax: &max},
			page:    PageParams{Page: 1, Limit: 20},
			wantErr: e.ErrInvalidPriceRange,
		},
		{
			name:    "unknown status",
			filter:  &ProductFilter{Statuses: []domain.StockStatus{"empty"}},
			page:    PageParams{Page: 1, Limit: 20},
			wantErr: e.ErrInvalidStockStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.QueryProducts(context.Background(), tt.filter, tt.sort, tt.page)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	f.products.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQueryProducts_DefaultsLowThreshold(t *testing.T) {
	f := newCatalogFixture()

	f.products.On("Query", mock.Anything, mock.MatchedBy(func(filter *ProductFilter) bool {
		return filter.LowThreshold == domain.DefaultLowStockThreshold
	}), SortParams{Field: "price", Desc: true}, PageParams{Page: 1, Limit: 20}).
		Return([]ProductView{{ID: 1}}, int64(1), nil).Once()

	res, err := f.uc.QueryProducts(context.Background(), &ProductFilter{},
		SortParams{Field: "price", Desc: true}, PageParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Equal(t, int64(1), res.TotalCount)
	f.products.AssertExpectations(t)
}

func TestQueryOrders_Validation(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.uc.QueryOrders(context.Background(),
		&OrderFilter{Stages: []domain.Stage{"archived"}},
		SortParams{}, PageParams{Page: 1, Limit: 20})
	require.ErrorIs(t, err, e.ErrInvalidStage)

	_, err = f.uc.QueryOrders(context.Background(), &OrderFilter{},
		SortParams{Field: "customer"}, PageParams{Page: 1, Limit: 20})
	require.ErrorIs(t, err, e.ErrInvalidSortField)

	f.orders.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQueryOrders_Success(t *testing.T) {
	f := newCatalogFixture()

	filter := &OrderFilter{Stages: []domain.Stage{domain.StagePicking, domain.StagePacking}}
	f.orders.On("Query", mock.Anything, filter, SortParams{Field: "createdAt", Desc: true}, PageParams{Page: 1, Limit: 50}).
		Return([]OrderView{{ID: "a"}, {ID: "b"}}, int64(2), nil).Once()

	res, err := f.uc.QueryOrders(context.Background(), filter,
		SortParams{Field: "createdAt", Desc: true}, PageParams{Page: 1, Limit: 50})

	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	require.Equal(t, int64(2), res.TotalCount)
}
