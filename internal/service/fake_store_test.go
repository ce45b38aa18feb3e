package service

import (
	"context"

	"product-transactions/internal/model"
	"product-transactions/internal/repository"
)

// fakeStore keeps records in insertion order and applies the month filter and paging.
type fakeStore struct {
	records   []model.Product
	err       error
	inserted  []model.Product
	lastQuery repository.TransactionFilter
	lastPage  *repository.Page
}

func (f *fakeStore) InsertMany(_ context.Context, products []model.Product) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, products...)
	f.records = append(f.records, products...)
	return len(products), nil
}

func (f *fakeStore) Find(_ context.Context, filter repository.TransactionFilter, page *repository.Page) ([]model.Product, error) {
	f.lastQuery = filter
	f.lastPage = page
	if f.err != nil {
		return nil, f.err
	}

	out := []model.Product{}
	for _, p := range f.records {
		if filter.SaleMonth != nil && !filter.SaleMonth.Contains(p.DateOfSale) {
			continue
		}
		out = append(out, p)
	}
	if page == nil {
		return out, nil
	}

	if page.Skip() >= int64(len(out)) {
		return []model.Product{}, nil
	}
	out = out[page.Skip():]
	if page.Size < len(out) {
		out = out[:page.Size]
	}
	return out, nil
}
