package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"product-transactions/internal/model"
)

type Statistics struct {
	SoldItems   []model.Product `json:"soldItems"`
	UnsoldItems []model.Product `json:"unsoldItems"`
	TotalSale   float64         `json:"totalSale"`
}

// PriceRange is one histogram bucket; a price belongs to the first range whose Max it does not exceed.
type PriceRange struct {
	Label string
	Max   float64
}

// PriceRanges are scanned in order. The last range is open ended.
var PriceRanges = []PriceRange{
	{"0-100", 100},
	{"101-200", 200},
	{"201-300", 300},
	{"301-400", 400},
	{"401-500", 500},
	{"501-600", 600},
	{"601-700", 700},
	{"701-800", 800},
	{"801-900", 900},
	{"901-above", math.Inf(1)},
}

// PriceRangeCounts holds one count per PriceRanges entry, index aligned.
type PriceRangeCounts []int

func (c PriceRangeCounts) Get(label string) int {
	for i, r := range PriceRanges {
		if r.Label == label && i < len(c) {
			return c[i]
		}
	}
	return 0
}

func (c PriceRangeCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// MarshalJSON writes an object keyed by label, in bucket order.
func (c PriceRangeCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range PriceRanges {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		n := 0
		if i < len(c) {
			n = c[i]
		}
		buf.WriteString(strconv.Itoa(n))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// validPrice reports whether price can take part in sums and histograms.
func validPrice(price float64) bool {
	return !math.IsNaN(price) && !math.IsInf(price, 0)
}

// ComputeStatistics partitions records by sold flag and sums the sold prices.
// A NaN or infinite price counts as 0.
func ComputeStatistics(records []model.Product) Statistics {
	stats := Statistics{
		SoldItems:   []model.Product{},
		UnsoldItems: []model.Product{},
	}
	for _, p := range records {
		if !p.Sold {
			stats.UnsoldItems = append(stats.UnsoldItems, p)
			continue
		}
		stats.SoldItems = append(stats.SoldItems, p)
		if validPrice(p.Price) {
			stats.TotalSale += p.Price
		}
	}
	return stats
}

// PriceHistogram counts records per PriceRanges bucket. The first bucket also
// requires a non-negative price, so negative prices fall through to the last one.
func PriceHistogram(records []model.Product) PriceRangeCounts {
	counts := make(PriceRangeCounts, len(PriceRanges))
	last := len(PriceRanges) - 1
	for _, p := range records {
		if !validPrice(p.Price) {
			continue
		}
		bucket := last
		for i, r := range PriceRanges[:last] {
			if i == 0 && p.Price < 0 {
				// the first bound is [0, 100]; later bounds are upper-only
				break
			}
			if p.Price <= r.Max {
				bucket = i
				break
			}
		}
		counts[bucket]++
	}
	return counts
}

// CategoryHistogram counts records per category, skipping empty categories.
func CategoryHistogram(records []model.Product) map[string]int {
	counts := map[string]int{}
	for _, p := range records {
		if p.Category == "" {
			continue
		}
		counts[p.Category]++
	}
	return counts
}
