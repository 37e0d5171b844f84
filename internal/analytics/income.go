package analytics

import (
	"math"
	"sort"

	"moneypilot/internal/core"
)

// IncomeSource is one named stream of income: a transaction category, or
// the synthetic work-day salary source.
type IncomeSource struct {
	Category     string  `json:"category"`
	Amount       float64 `json:"amount"`
	FromWorkDays bool    `json:"isFromWorkDays"`
}

// AggregateIncomeSources groups income transactions by category and, when
// the worked-day salary total is positive, appends it as its own source
// named WorkDaySalarySource. Sorted by amount descending; equal amounts
// keep first-appearance order, with the salary source appearing last among
// equals.
func AggregateIncomeSources(transactions []core.Transaction, workDays []core.WorkDay) []IncomeSource {
	totals := make(map[string]float64)
	var order []string

	for _, tx := range transactions {
		if tx.Type != core.TypeIncome {
			continue
		}
		name := tx.Category
		if name == "" {
			name = CategoryUncategorized
		}
		if _, ok := totals[name]; !ok {
			order = append(order, name)
		}
		totals[name] += math.Abs(tx.Amount)
	}

	sources := make([]IncomeSource, 0, len(order)+1)
	for _, name := range order {
		sources = append(sources, IncomeSource{Category: name, Amount: totals[name]})
	}

	if salary := CalculateWorkDaySalary(workDays); salary > 0 {
		sources = append(sources, IncomeSource{
			Category:     WorkDaySalarySource,
			Amount:       salary,
			FromWorkDays: true,
		})
	}

	if len(sources) == 0 {
		return nil
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Amount > sources[j].Amount
	})
	return sources
}
