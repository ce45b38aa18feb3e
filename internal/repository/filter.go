package repository

import (
	"math"
	"regexp"

	"product-transactions/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionFilter holds the optional criteria of a transaction query.
// Zero values mean "not filtered"; set criteria are combined with AND.
type TransactionFilter struct {
	Title       string
	Description string
	Price       *float64
	SaleMonth   *model.SaleMonth
}

// Page selects a 1-based page of Size records.
type Page struct {
	Number int
	Size   int
}

// Skip is the number of records before the page. It saturates at math.MaxInt64
// so a page far past the end stays an empty page.
func (p Page) Skip() int64 {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	before, size := int64(p.Number-1), int64(p.Size)
	if before > math.MaxInt64/size {
		return math.MaxInt64
	}
	return before * size
}

// BSON renders the filter as a find document.
func (f TransactionFilter) BSON() bson.M {
	query := bson.M{}

	if f.Title != "" {
		query["title"] = containsIgnoreCase(f.Title)
	}
	if f.Description != "" {
		query["description"] = containsIgnoreCase(f.Description)
	}
	if f.Price != nil {
		query["price"] = bson.M{"$eq": *f.Price}
	}
	if f.SaleMonth != nil {
		query["dateOfSale"] = bson.M{
			"$gte": f.SaleMonth.Start,
			"$lt":  f.SaleMonth.End,
		}
	}

	return query
}

func containsIgnoreCase(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
