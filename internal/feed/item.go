package feed

import (
	"fmt"
	"strings"
	"time"

	"product-transactions/internal/model"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
)

// Item is one raw feed entry. Numeric and boolean fields are decoded loosely
// because upstream has served them both as JSON numbers and as strings.
type Item struct {
	ID          any    `json:"id"`
	Title       string `json:"title"`
	Price       any    `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Sold        any    `json:"sold"`
	DateOfSale  string `json:"dateOfSale"`
}

// Product normalizes the item. Dates without a zone are read as UTC.
func (i Item) Product() (model.Product, error) {
	id, err := cast.ToInt64E(i.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("id %v: %w", i.ID, err)
	}
	price, err := cast.ToFloat64E(i.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("item %d price %v: %w", id, i.Price, err)
	}
	sold, err := cast.ToBoolE(i.Sold)
	if err != nil {
		return model.Product{}, fmt.Errorf("item %d sold %v: %w", id, i.Sold, err)
	}

	var soldAt time.Time
	if s := strings.TrimSpace(i.DateOfSale); s != "" {
		soldAt, err = dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return model.Product{}, fmt.Errorf("item %d dateOfSale %q: %w", id, s, err)
		}
		soldAt = soldAt.UTC()
	}

	return model.Product{
		ExternalID:  id,
		Title:       i.Title,
		Price:       price,
		Description: i.Description,
		Category:    i.Category,
		Image:       i.Image,
		Sold:        sold,
		DateOfSale:  soldAt,
	}, nil
}
