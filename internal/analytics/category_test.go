package analytics

import (
	"fmt"
	"math"
	"testing"

	"moneypilot/internal/core"
)

// Shared fixture helpers for the engine tests.

func expense(category string, amount float64, date core.Date) core.Transaction {
	return core.Transaction{Type: core.TypeExpense, Category: category, Amount: amount, Date: date}
}

func income(category string, amount float64, date core.Date) core.Transaction {
	return core.Transaction{Type: core.TypeIncome, Category: category, Amount: amount, Date: date}
}

func workDay(date core.Date, hours, rate float64, status core.WorkDayStatus) core.WorkDay {
	return core.WorkDay{Date: date, HoursWorked: hours, DailyRate: rate, Status: status}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

var someDay = core.NewDate(2024, 3, 15)

func TestAggregateByCategory(t *testing.T) {
	txs := []core.Transaction{
		expense("Food", 100, someDay),
		expense("Transport", 50, someDay),
		expense("Food", 20, someDay),
		income("Salary", 200, someDay),
	}

	got := AggregateByCategory(txs)

	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}

	food, transport := got[0], got[1]
	if food.Name != "Food" || food.Value != 120 || food.Count != 2 {
		t.Errorf("first bucket = %+v, want Food/120/2", food)
	}
	if transport.Name != "Transport" || transport.Value != 50 || transport.Count != 1 {
		t.Errorf("second bucket = %+v, want Transport/50/1", transport)
	}
	if !almostEqual(food.Percentage, 70.59) {
		t.Errorf("Food percentage = %.2f, want ~70.59", food.Percentage)
	}
	if !almostEqual(transport.Percentage, 29.41) {
		t.Errorf("Transport percentage = %.2f, want ~29.41", transport.Percentage)
	}
}

func TestAggregateByCategory_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		txs  []core.Transaction
		want int
	}{
		{"nil input", nil, 0},
		{"empty input", []core.Transaction{}, 0},
		{"income only", []core.Transaction{income("Salary", 100, someDay)}, 0},
		{"zero-value category dropped", []core.Transaction{
			expense("Food", 100, someDay),
			expense("Ghost", 0, someDay),
		}, 1},
		{"negative amounts use absolute value", []core.Transaction{
			expense("Food", -40, someDay),
			expense("Food", 60, someDay),
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateByCategory(tt.txs)
			if len(got) != tt.want {
				t.Errorf("got %d buckets, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAggregateByCategory_AllZeroReturnsNil(t *testing.T) {
	got := AggregateByCategory([]core.Transaction{
		expense("Food", 0, someDay),
		expense("Transport", 0, someDay),
	})
	if got != nil {
		t.Fatalf("got %+v, want nil when every category sums to zero", got)
	}
}

func TestAggregateByCategory_UncategorizedFallback(t *testing.T) {
	got := AggregateByCategory([]core.Transaction{expense("", 25, someDay)})
	if len(got) != 1 || got[0].Name != CategoryUncategorized {
		t.Fatalf("got %+v, want single %q bucket", got, CategoryUncategorized)
	}
}

func TestAggregateByCategory_Conservation(t *testing.T) {
	txs := []core.Transaction{
		expense("A", 10.10, someDay),
		expense("B", 0.37, someDay),
		expense("A", 99.99, someDay),
		expense("C", 250, someDay),
		income("Salary", 5000, someDay),
		expense("B", -12.25, someDay),
	}

	var wantTotal float64
	for _, tx := range txs {
		if tx.Type == core.TypeExpense {
			wantTotal += math.Abs(tx.Amount)
		}
	}

	got := AggregateByCategory(txs)

	var gotTotal, gotPct float64
	for _, b := range got {
		gotTotal += b.Value
		gotPct += b.Percentage
	}
	if !almostEqual(gotTotal, wantTotal) {
		t.Errorf("sum of bucket values = %.4f, want %.4f", gotTotal, wantTotal)
	}
	if !almostEqual(gotPct, 100) {
		t.Errorf("sum of percentages = %.4f, want 100", gotPct)
	}
}

func TestGroupCategories_UnderLimit(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 8; i++ {
		txs = append(txs, expense(fmt.Sprintf("Cat%d", i), float64(100-i), someDay))
	}
	buckets := AggregateByCategory(txs)

	got := GroupCategories(buckets)
	if len(got) != 8 {
		t.Fatalf("got %d buckets, want 8 unchanged", len(got))
	}
	for i := range got {
		if got[i] != buckets[i] {
			t.Errorf("bucket %d changed: got %+v, want %+v", i, got[i], buckets[i])
		}
	}
}

func TestGroupCategories_OverLimit(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 12; i++ {
		txs = append(txs, expense(fmt.Sprintf("Cat%02d", i), float64(120-i*10), someDay))
	}
	buckets := AggregateByCategory(txs)

	got := GroupCategories(buckets)
	if len(got) != 9 {
		t.Fatalf("got %d buckets, want 9 (top 8 + %s)", len(got), CategoryOther)
	}

	other := got[8]
	if other.Name != CategoryOther {
		t.Fatalf("last bucket = %q, want %q", other.Name, CategoryOther)
	}

	var wantValue float64
	var wantCount int
	for _, b := range buckets[8:] {
		wantValue += b.Value
		wantCount += b.Count
	}
	if !almostEqual(other.Value, wantValue) {
		t.Errorf("%s value = %.2f, want %.2f", CategoryOther, other.Value, wantValue)
	}
	if other.Count != wantCount {
		t.Errorf("%s count = %d, want %d", CategoryOther, other.Count, wantCount)
	}

	// Overig percentage is against the total of all buckets, so the grouped
	// result still sums to 100.
	var pct float64
	for _, b := range got {
		pct += b.Percentage
	}
	if !almostEqual(pct, 100) {
		t.Errorf("grouped percentages sum to %.4f, want 100", pct)
	}

	// The input slice must be untouched.
	if len(buckets) != 12 {
		t.Errorf("input slice length changed to %d", len(buckets))
	}
}
