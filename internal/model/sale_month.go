package model

import (
	"fmt"
	"time"
)

const saleMonthLayout = "2006-01"

// SaleMonth is the half-open UTC interval [Start, End) covering one calendar month.
type SaleMonth struct {
	Start time.Time
	End   time.Time
}

// ParseSaleMonth parses "YYYY-MM".
func ParseSaleMonth(s string) (SaleMonth, error) {
	start, err := time.Parse(saleMonthLayout, s)
	if err != nil {
		return SaleMonth{}, fmt.Errorf("sale month %q must be YYYY-MM", s)
	}
	start = start.UTC()
	return SaleMonth{
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}, nil
}

func (m SaleMonth) Contains(t time.Time) bool {
	return !t.Before(m.Start) && t.Before(m.End)
}

func (m SaleMonth) String() string {
	return m.Start.Format(saleMonthLayout)
}
