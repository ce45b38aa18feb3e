package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"product-transactions/internal/model"
	"product-transactions/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(n int) *fakeStore {
	store := &fakeStore{}
	for i := 0; i < n; i++ {
		store.records = append(store.records, model.Product{
			ExternalID: int64(i + 1),
			Price:      float64(i * 37 % 1000),
			Sold:       i%2 == 0,
			DateOfSale: time.Date(2022, time.Month(i%12+1), 15, 0, 0, 0, 0, time.UTC),
		})
	}
	return store
}

func TestTransactionService_SearchDefaults(t *testing.T) {
	store := seeded(25)
	svc := NewTransactionService(store)

	got, err := svc.Search(context.Background(), SearchQuery{})
	require.NoError(t, err)

	assert.Len(t, got, DefaultPerPage)
	require.NotNil(t, store.lastPage)
	assert.Equal(t, repository.Page{Number: 1, Size: 10}, *store.lastPage)
}

func TestTransactionService_SearchPassesFilter(t *testing.T) {
	store := seeded(3)
	svc := NewTransactionService(store)
	price := 37.0

	_, err := svc.Search(context.Background(), SearchQuery{
		Filter:  repository.TransactionFilter{Title: "bag", Price: &price},
		Page:    2,
		PerPage: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "bag", store.lastQuery.Title)
	assert.Equal(t, &price, store.lastQuery.Price)
	assert.Equal(t, repository.Page{Number: 2, Size: 5}, *store.lastPage)
}

func TestTransactionService_SearchRejectsNegativePaging(t *testing.T) {
	svc := NewTransactionService(seeded(1))

	_, err := svc.Search(context.Background(), SearchQuery{Page: -1})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = svc.Search(context.Background(), SearchQuery{PerPage: -3})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestTransactionService_PagesConcatenateToListAll(t *testing.T) {
	store := seeded(47)
	svc := NewTransactionService(store)
	ctx := context.Background()

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Nil(t, store.lastPage)

	var paged []model.Product
	for page := 1; ; page++ {
		chunk, err := svc.Search(ctx, SearchQuery{Page: page, PerPage: 10})
		require.NoError(t, err)
		if len(chunk) == 0 {
			break
		}
		paged = append(paged, chunk...)
	}

	assert.Equal(t, all, paged)
}

func TestTransactionService_StatisticsForMonth(t *testing.T) {
	march := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{records: []model.Product{
		{Price: 50, Sold: true, DateOfSale: march},
		{Price: 150, Sold: true, DateOfSale: march.AddDate(0, 0, 20)},
		{Price: 999, Sold: false, DateOfSale: march},
		{Price: 10, Sold: true, DateOfSale: march.AddDate(0, 1, 0)},
	}}
	svc := NewTransactionService(store)
	month, err := model.ParseSaleMonth("2024-03")
	require.NoError(t, err)

	stats, err := svc.Statistics(context.Background(), &month)
	require.NoError(t, err)
	assert.Equal(t, 200.0, stats.TotalSale)
	assert.Len(t, stats.SoldItems, 2)
	assert.Len(t, stats.UnsoldItems, 1)
	assert.Equal(t, &month, store.lastQuery.SaleMonth)

	ranges, err := svc.PriceRanges(context.Background(), &month)
	require.NoError(t, err)
	assert.Equal(t, 1, ranges.Get("0-100"))
	assert.Equal(t, 1, ranges.Get("101-200"))
	assert.Equal(t, 1, ranges.Get("901-above"))
	assert.Equal(t, 3, ranges.Total())
}

func TestTransactionService_CategoriesWithoutMonth(t *testing.T) {
	store := &fakeStore{records: []model.Product{
		{Category: "a"}, {Category: "b"}, {Category: "a"},
	}}
	svc := NewTransactionService(store)

	got, err := svc.Categories(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, got)
	assert.Nil(t, store.lastQuery.SaleMonth)
}

func TestTransactionService_StoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewTransactionService(&fakeStore{err: boom})
	ctx := context.Background()

	_, err := svc.ListAll(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = svc.Statistics(ctx, nil)
	assert.ErrorIs(t, err, boom)
	_, err = svc.PriceRanges(ctx, nil)
	assert.ErrorIs(t, err, boom)
	_, err = svc.Categories(ctx, nil)
	assert.ErrorIs(t, err, boom)
}
