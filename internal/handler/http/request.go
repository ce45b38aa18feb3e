package http

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"product-transactions/internal/model"
	"product-transactions/internal/repository"
	"product-transactions/internal/service"
)

type badRequestError struct {
	param string
	err   error
}

func (e *badRequestError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.param, e.err)
}

func (e *badRequestError) Unwrap() error {
	return e.err
}

// queryValue trims a scalar parameter. Text filters are read with q.Get and kept as sent.
func queryValue(q url.Values, name string) string {
	return strings.TrimSpace(q.Get(name))
}

// parseSaleMonth returns nil when saleMonth is absent.
func parseSaleMonth(q url.Values) (*model.SaleMonth, error) {
	raw := queryValue(q, "saleMonth")
	if raw == "" {
		return nil, nil
	}
	m, err := model.ParseSaleMonth(raw)
	if err != nil {
		return nil, &badRequestError{param: "saleMonth", err: err}
	}
	return &m, nil
}

// parsePositiveInt returns 0 when the parameter is absent.
func parsePositiveInt(q url.Values, name string) (int, error) {
	raw := queryValue(q, name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &badRequestError{param: name, err: fmt.Errorf("%q is not an integer", raw)}
	}
	if n < 1 {
		return 0, &badRequestError{param: name, err: fmt.Errorf("%d must be at least 1", n)}
	}
	return n, nil
}

func parsePrice(q url.Values) (*float64, error) {
	raw := queryValue(q, "price")
	if raw == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, &badRequestError{param: "price", err: fmt.Errorf("%q is not a number", raw)}
	}
	return &price, nil
}

// parseSearchQuery validates GET /transactions parameters.
func parseSearchQuery(q url.Values) (service.SearchQuery, error) {
	var out service.SearchQuery
	var err error

	if out.Page, err = parsePositiveInt(q, "page"); err != nil {
		return out, err
	}
	if out.PerPage, err = parsePositiveInt(q, "perPage"); err != nil {
		return out, err
	}

	filter := repository.TransactionFilter{
		Title:       q.Get("title"),
		Description: q.Get("description"),
	}
	if filter.Price, err = parsePrice(q); err != nil {
		return out, err
	}
	if filter.SaleMonth, err = parseSaleMonth(q); err != nil {
		return out, err
	}
	out.Filter = filter
	return out, nil
}
