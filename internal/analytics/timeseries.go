package analytics

import (
	"math"
	"sort"

	"moneypilot/internal/core"
)

// PeriodBucket is one week or month of the income-vs-expenses chart.
// Net is always Income - Expenses, computed when the bucket is emitted.
type PeriodBucket struct {
	Period   string  `json:"period"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// DailyExpense is one point of the daily spending trend.
type DailyExpense struct {
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	FormattedDate string  `json:"formattedDate"`
}

// GroupByWeek buckets transactions and worked work-days by ISO week
// (Monday start). Each transaction adds abs(amount) to the income or
// expenses of its week; each worked work-day adds hours * rate to income.
// A week appears as soon as either kind of record lands in it.
//
// Results are ordered by the week label string ("Jan 02"), not
// chronologically; across year boundaries the two orders differ. The chart
// consumers rely on this ordering, so it is kept as-is.
func GroupByWeek(transactions []core.Transaction, workDays []core.WorkDay) []PeriodBucket {
	return groupByPeriod(transactions, workDays, weekKey, weekLabel)
}

// GroupByMonth buckets by calendar month. Same contract and the same
// label-string ordering ("Jan 2006") as GroupByWeek.
func GroupByMonth(transactions []core.Transaction, workDays []core.WorkDay) []PeriodBucket {
	return groupByPeriod(transactions, workDays, monthKey, monthLabel)
}

func groupByPeriod(
	transactions []core.Transaction,
	workDays []core.WorkDay,
	key func(core.Date) string,
	label func(core.Date) string,
) []PeriodBucket {
	// No transactions means no chart, even if work days exist; the work-day
	// series only ever augments transaction data.
	if len(transactions) == 0 {
		return nil
	}

	buckets := make(map[string]*PeriodBucket)
	var order []string

	get := func(d core.Date) *PeriodBucket {
		k := key(d)
		b, ok := buckets[k]
		if !ok {
			b = &PeriodBucket{Period: label(d)}
			buckets[k] = b
			order = append(order, k)
		}
		return b
	}

	for _, tx := range transactions {
		b := get(tx.Date)
		amount := math.Abs(tx.Amount)
		if tx.Type == core.TypeIncome {
			b.Income += amount
		} else {
			b.Expenses += amount
		}
	}

	for _, wd := range workDays {
		if wd.Status != core.StatusWorked {
			continue
		}
		b := get(wd.Date)
		b.Income += wd.HoursWorked * wd.DailyRate
	}

	out := make([]PeriodBucket, 0, len(order))
	for _, k := range order {
		b := *buckets[k]
		b.Net = b.Income - b.Expenses
		out = append(out, b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Period < out[j].Period
	})
	return out
}

// AggregateDailyExpenses groups expense transactions by calendar day,
// ignoring income and work days entirely. Unlike the week/month grouping,
// the result is chronological (ISO date ascending). A non-nil range
// restricts the input to its inclusive bounds.
func AggregateDailyExpenses(transactions []core.Transaction, rng *core.DateRange) []DailyExpense {
	if len(transactions) == 0 {
		return nil
	}

	totals := make(map[string]float64)
	var order []string

	for _, tx := range transactions {
		if tx.Type != core.TypeExpense {
			continue
		}
		if rng != nil && !rng.Contains(tx.Date) {
			continue
		}
		k := dayKey(tx.Date)
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += math.Abs(tx.Amount)
	}

	if len(order) == 0 {
		return nil
	}

	out := make([]DailyExpense, 0, len(order))
	for _, k := range order {
		d, _ := core.ParseDate(k)
		out = append(out, DailyExpense{
			Date:          k,
			Amount:        totals[k],
			FormattedDate: dayLabel(d),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
