package analytics

import (
	"testing"

	"moneypilot/internal/core"
)

func TestAggregateIncomeSources(t *testing.T) {
	txs := []core.Transaction{
		income("Salary", 2000, someDay),
		income("Freelance", 300, someDay),
		income("Salary", 500, someDay),
		expense("Food", 50, someDay),
	}

	days := []core.WorkDay{workDay(someDay, 8, 50, core.StatusWorked)}

	got := AggregateIncomeSources(txs, days)
	if len(got) != 3 {
		t.Fatalf("got %d sources, want 3", len(got))
	}

	if got[0].Category != "Salary" || got[0].Amount != 2500 {
		t.Errorf("first source = %+v, want Salary/2500", got[0])
	}
	if got[1].Category != WorkDaySalarySource || got[1].Amount != 400 || !got[1].FromWorkDays {
		t.Errorf("second source = %+v, want %s/400/fromWorkDays", got[1], WorkDaySalarySource)
	}
	if got[2].Category != "Freelance" || got[2].Amount != 300 || got[2].FromWorkDays {
		t.Errorf("third source = %+v, want Freelance/300", got[2])
	}
}

func TestAggregateIncomeSources_NoSalary(t *testing.T) {
	// Vacation days earn nothing, so no synthetic salary source appears.
	days := []core.WorkDay{workDay(someDay, 8, 50, core.StatusVacation)}

	got := AggregateIncomeSources([]core.Transaction{income("Freelance", 300, someDay)}, days)
	if len(got) != 1 {
		t.Fatalf("got %d sources, want 1 (no work day entry when salary is 0)", len(got))
	}
	if got[0].FromWorkDays {
		t.Errorf("source flagged as work day salary: %+v", got[0])
	}
}

func TestAggregateIncomeSources_SalaryOnly(t *testing.T) {
	days := []core.WorkDay{workDay(someDay, 8, 80, core.StatusWorked)}

	got := AggregateIncomeSources(nil, days)
	if len(got) != 1 || got[0].Category != WorkDaySalarySource || got[0].Amount != 640 {
		t.Fatalf("got %+v, want single %s/640 source", got, WorkDaySalarySource)
	}
}

func TestAggregateIncomeSources_Empty(t *testing.T) {
	if got := AggregateIncomeSources(nil, nil); got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
	if got := AggregateIncomeSources([]core.Transaction{expense("Food", 10, someDay)}, nil); got != nil {
		t.Fatalf("expenses only: got %+v, want nil", got)
	}
}

func TestAggregateIncomeSources_UncategorizedFallback(t *testing.T) {
	got := AggregateIncomeSources([]core.Transaction{income("", 75, someDay)}, nil)
	if len(got) != 1 || got[0].Category != CategoryUncategorized {
		t.Fatalf("got %+v, want single %s source", got, CategoryUncategorized)
	}
}
