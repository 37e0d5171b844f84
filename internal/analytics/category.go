// Package analytics is the aggregation engine behind the dashboards: pure
// functions that turn in-memory transaction and work-day collections into
// category buckets, period buckets, income sources and scalar metrics.
// Every function allocates its result fresh and never mutates its input,
// so calls are safe to run concurrently without coordination.
package analytics

import (
	"math"
	"sort"

	"moneypilot/internal/core"
)

// Names produced by the engine itself. Consumers match on these, so they
// live here as constants rather than inline literals.
const (
	// CategoryUncategorized is the fallback for transactions without a
	// category.
	CategoryUncategorized = "Uncategorized"

	// CategoryOther is the synthetic bucket absorbing the long tail beyond
	// the top categories. The UI treats it as non-drillable.
	CategoryOther = "Overig"

	// WorkDaySalarySource is the income source derived from work days.
	WorkDaySalarySource = "Salaris (Werkdagen)"
)

// visibleCategoryLimit is how many categories a breakdown chart shows
// before the remainder collapses into CategoryOther.
const visibleCategoryLimit = 8

// CategoryBucket is one slice of the expense breakdown. Percentage is
// relative to the sum of all bucket values in the same result set.
type CategoryBucket struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// AggregateByCategory rolls expense transactions up by category. Income
// transactions are ignored. Categories whose summed value is exactly zero
// are dropped. The result is sorted by value descending; equal values keep
// first-appearance order.
func AggregateByCategory(transactions []core.Transaction) []CategoryBucket {
	if len(transactions) == 0 {
		return nil
	}

	type sums struct {
		total float64
		count int
	}
	byCategory := make(map[string]*sums)
	var order []string
	var totalExpenses float64

	for _, tx := range transactions {
		if tx.Type != core.TypeExpense {
			continue
		}
		name := tx.Category
		if name == "" {
			name = CategoryUncategorized
		}
		amount := math.Abs(tx.Amount)

		s, ok := byCategory[name]
		if !ok {
			s = &sums{}
			byCategory[name] = s
			order = append(order, name)
		}
		s.total += amount
		s.count++
		totalExpenses += amount
	}

	if len(order) == 0 {
		return nil
	}

	buckets := make([]CategoryBucket, 0, len(order))
	for _, name := range order {
		s := byCategory[name]
		if s.total == 0 {
			// Zero-value categories (all zero-amount transactions) are
			// dropped from the breakdown.
			continue
		}
		pct := 0.0
		if totalExpenses > 0 {
			pct = s.total / totalExpenses * 100
		}
		buckets = append(buckets, CategoryBucket{
			Name:       name,
			Value:      s.total,
			Percentage: pct,
			Count:      s.count,
		})
	}

	if len(buckets) == 0 {
		// All categories summed to zero; treat it like no expenses at all.
		return nil
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Value > buckets[j].Value
	})

	return buckets
}

// GroupCategories collapses a category breakdown to at most nine entries:
// the top eight by value plus an "Overig" bucket summing the rest. The
// Overig percentage is computed against the total of all input buckets,
// not just the kept ones. Breakdowns of eight or fewer are returned as-is.
// The input slice is never modified.
func GroupCategories(buckets []CategoryBucket) []CategoryBucket {
	if len(buckets) <= visibleCategoryLimit {
		return buckets
	}

	var total float64
	for _, b := range buckets {
		total += b.Value
	}

	var otherValue float64
	var otherCount int
	for _, b := range buckets[visibleCategoryLimit:] {
		otherValue += b.Value
		otherCount += b.Count
	}

	otherPct := 0.0
	if total > 0 {
		otherPct = otherValue / total * 100
	}

	grouped := make([]CategoryBucket, 0, visibleCategoryLimit+1)
	grouped = append(grouped, buckets[:visibleCategoryLimit]...)
	grouped = append(grouped, CategoryBucket{
		Name:       CategoryOther,
		Value:      otherValue,
		Percentage: otherPct,
		Count:      otherCount,
	})
	return grouped
}
