package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"moneypilot/internal/analytics"
	"moneypilot/internal/core"
)

type summaryResponse struct {
	TotalIncome          float64           `json:"totalIncome"`
	TotalExpenses        float64           `json:"totalExpenses"`
	Net                  float64           `json:"net"`
	SavingsRate          float64           `json:"savingsRate"`
	WorkDaySalary        float64           `json:"workDaySalary"`
	AverageDailySpending float64           `json:"averageDailySpending"`
	HighestExpense       *core.Transaction `json:"highestExpense"`
	TransactionCount     int               `json:"transactionCount"`
}

// loadRange fetches the transactions and work days covered by the optional
// start/end query range. A date-range parse failure has already produced a
// response when ok is false.
func (s *Server) loadRange(w http.ResponseWriter, r *http.Request) (txs []core.Transaction, days []core.WorkDay, rng *core.DateRange, ok bool) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, nil, false
	}

	txs, err = s.transactions.ListTransactions(r.Context(), rng)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return nil, nil, nil, false
	}

	days, err = s.workDays.ListWorkDays(r.Context(), rng)
	if err != nil {
		slog.ErrorContext(r.Context(), "List work days error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load work days")
		return nil, nil, nil, false
	}

	return txs, days, rng, true
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	txs, _, _, ok := s.loadRange(w, r)
	if !ok {
		return
	}

	buckets := analytics.AggregateByCategory(txs)

	// The dashboard pie chart wants the grouped view by default.
	grouped := true
	if v := strings.TrimSpace(r.URL.Query().Get("grouped")); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid grouped parameter")
			return
		}
		grouped = parsed
	}
	if grouped {
		buckets = analytics.GroupCategories(buckets)
	}
	if buckets == nil {
		buckets = []analytics.CategoryBucket{}
	}

	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	granularity := strings.TrimSpace(r.URL.Query().Get("granularity"))
	if granularity == "" {
		granularity = "month"
	}
	if granularity != "week" && granularity != "month" {
		writeError(w, http.StatusBadRequest, "granularity must be week or month")
		return
	}

	txs, days, _, ok := s.loadRange(w, r)
	if !ok {
		return
	}

	var buckets []analytics.PeriodBucket
	if granularity == "week" {
		buckets = analytics.GroupByWeek(txs, days)
	} else {
		buckets = analytics.GroupByMonth(txs, days)
	}
	if buckets == nil {
		buckets = []analytics.PeriodBucket{}
	}

	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handleDailyExpenses(w http.ResponseWriter, r *http.Request) {
	txs, _, rng, ok := s.loadRange(w, r)
	if !ok {
		return
	}

	daily := analytics.AggregateDailyExpenses(txs, rng)
	if daily == nil {
		daily = []analytics.DailyExpense{}
	}

	writeJSON(w, http.StatusOK, daily)
}

func (s *Server) handleIncomeSources(w http.ResponseWriter, r *http.Request) {
	txs, days, _, ok := s.loadRange(w, r)
	if !ok {
		return
	}

	sources := analytics.AggregateIncomeSources(txs, days)
	if sources == nil {
		sources = []analytics.IncomeSource{}
	}

	writeJSON(w, http.StatusOK, sources)
}

func (s *Server) handleTopCategories(w http.ResponseWriter, r *http.Request) {
	limit := s.topCategoriesLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	txs, _, _, ok := s.loadRange(w, r)
	if !ok {
		return
	}

	ranked := analytics.RankTopCategories(txs, limit)
	if ranked == nil {
		ranked = []analytics.RankedCategory{}
	}

	writeJSON(w, http.StatusOK, ranked)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("start") + "|" + r.URL.Query().Get("end")
	if cached, found := s.summaryCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	txs, days, rng, ok := s.loadRange(w, r)
	if !ok {
		return
	}

	var income, expenses float64
	for _, tx := range txs {
		switch tx.Type {
		case core.TypeIncome:
			income += math.Abs(tx.Amount)
		case core.TypeExpense:
			expenses += math.Abs(tx.Amount)
		}
	}

	salary := analytics.CalculateWorkDaySalary(days)
	totalIncome := income + salary

	resp := summaryResponse{
		TotalIncome:          totalIncome,
		TotalExpenses:        expenses,
		Net:                  totalIncome - expenses,
		SavingsRate:          analytics.CalculateSavingsRate(totalIncome, expenses),
		WorkDaySalary:        salary,
		AverageDailySpending: analytics.CalculateAverageDailySpending(txs, rng),
		HighestExpense:       analytics.FindHighestExpense(txs),
		TransactionCount:     len(txs),
	}

	s.summaryCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}
