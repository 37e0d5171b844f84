package analytics

import (
	"math"
	"sort"

	"moneypilot/internal/core"
)

// RankedCategory is one row of the top-spending-categories widget.
// Rank is 1-based.
type RankedCategory struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
	Rank  int     `json:"rank"`
}

// CalculateSavingsRate returns (income - expenses) / income * 100. It can
// be negative. Zero income returns exactly 0 rather than an error or an
// infinity; the dashboard renders that as "no income yet".
func CalculateSavingsRate(income, expenses float64) float64 {
	if income == 0 {
		return 0
	}
	return (income - expenses) / income * 100
}

// CalculateWorkDaySalary sums hours * rate over days with status "worked".
// All other statuses contribute nothing, whatever their hours and rate say.
func CalculateWorkDaySalary(workDays []core.WorkDay) float64 {
	var total float64
	for _, wd := range workDays {
		if wd.Status != core.StatusWorked {
			continue
		}
		total += wd.HoursWorked * wd.DailyRate
	}
	return total
}

// CalculateAverageDailySpending divides total expense volume by the number
// of days in the range, both bounds inclusive. The range only supplies the
// day count; the transactions are summed as given. Returns 0 when there
// are no expense transactions or no range.
func CalculateAverageDailySpending(transactions []core.Transaction, rng *core.DateRange) float64 {
	var total float64
	var hasExpenses bool
	for _, tx := range transactions {
		if tx.Type != core.TypeExpense {
			continue
		}
		hasExpenses = true
		total += math.Abs(tx.Amount)
	}

	if !hasExpenses || rng == nil {
		return 0
	}

	days := int(math.Ceil(rng.End.Sub(rng.Start.Time).Hours()/24)) + 1
	if days <= 0 {
		return 0
	}
	return total / float64(days)
}

// FindHighestExpense returns the expense transaction with the largest
// absolute amount, or nil when there are none. Ties go to the transaction
// encountered first; the scan uses a strict greater-than so later equals
// never displace an earlier winner.
func FindHighestExpense(transactions []core.Transaction) *core.Transaction {
	var max *core.Transaction
	for i := range transactions {
		tx := &transactions[i]
		if tx.Type != core.TypeExpense {
			continue
		}
		if max == nil || math.Abs(tx.Amount) > math.Abs(max.Amount) {
			max = tx
		}
	}
	if max == nil {
		return nil
	}
	found := *max
	return &found
}

// RankTopCategories ranks expense categories by total spend, ties broken
// by transaction count descending. The list is truncated to limit before
// ranks are assigned, so ranks always run 1..len(result). Grouping into
// "Overig" is deliberately not applied here. A non-positive limit yields
// an empty result.
func RankTopCategories(transactions []core.Transaction, limit int) []RankedCategory {
	if limit <= 0 {
		return nil
	}

	buckets := AggregateByCategory(transactions)
	if len(buckets) == 0 {
		return nil
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Value != buckets[j].Value {
			return buckets[i].Value > buckets[j].Value
		}
		return buckets[i].Count > buckets[j].Count
	})

	if limit > len(buckets) {
		limit = len(buckets)
	}

	ranked := make([]RankedCategory, limit)
	for i, b := range buckets[:limit] {
		ranked[i] = RankedCategory{
			Name:  b.Name,
			Total: b.Value,
			Count: b.Count,
			Rank:  i + 1,
		}
	}
	return ranked
}
