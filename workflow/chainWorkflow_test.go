package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/contaslab/contas_backend/models"
	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func frequencyPtr(f models.RecurringFrequency) *models.RecurringFrequency { return &f }

func plainInput(dueDate time.Time) TransactionInput {
	return TransactionInput{
		AccountId:   1,
		CategoryId:  2,
		Description: "Mercado",
		Value:       decimal.NewFromInt(100),
		DueDate:     dueDate,
	}
}

func TestBuildChainPlainTransaction(t *testing.T) {
	input := plainInput(date(2024, 3, 10))
	chain := BuildChain(7, &input, date(2024, 3, 1))
	if len(chain) != 1 {
		t.Fatalf("expected a single row, got %d", len(chain))
	}
	if chain[0].Description != "Mercado" || chain[0].UserId != 7 {
		t.Fatalf("unexpected head: %+v", chain[0])
	}
}

func TestBuildChainInstallments(t *testing.T) {
	input := plainInput(date(2024, 1, 31))
	input.IsInstallment = true
	input.Installments = intPtr(5)
	input.CurrentInstallment = intPtr(2)

	chain := BuildChain(7, &input, date(2024, 1, 1))

	if len(chain) != 4 {
		t.Fatalf("expected 4 rows (installments 2..5), got %d", len(chain))
	}
	for i, row := range chain {
		installment := 2 + i
		wantDescription := fmt.Sprintf("(%d/5) Mercado", installment)
		if row.Description != wantDescription {
			t.Fatalf("row %d description %q, want %q", i, row.Description, wantDescription)
		}
		if row.CurrentInstallment == nil || *row.CurrentInstallment != installment {
			t.Fatalf("row %d current installment mismatch: %+v", i, row.CurrentInstallment)
		}
		wantDue := AddMonths(date(2024, 1, 31), installment-2)
		if !row.DueDate.Equal(wantDue) {
			t.Fatalf("row %d due date %v, want %v", i, row.DueDate, wantDue)
		}
		if !row.Value.Equal(input.Value) {
			t.Fatalf("row %d value %s, want %s", i, row.Value, input.Value)
		}
	}
	// Jan 31 chain clamps in February
	if !chain[1].DueDate.Equal(date(2024, 2, 29)) {
		t.Fatalf("second installment due %v, want 2024-02-29", chain[1].DueDate)
	}
}

func TestBuildChainMonthlyRecurringCapsAtYearEnd(t *testing.T) {
	input := plainInput(date(2024, 9, 5))
	input.IsRecurring = true
	input.RecurringFrequency = frequencyPtr(models.FrequencyMonthly)

	chain := BuildChain(7, &input, date(2024, 9, 5))

	// head in Sep plus Oct, Nov, Dec; nothing dated in 2025
	if len(chain) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(chain))
	}
	last := chain[len(chain)-1]
	if last.DueDate.Year() != 2024 || int(last.DueDate.Month()) != 12 {
		t.Fatalf("last occurrence due %v, want December 2024", last.DueDate)
	}
	for i, row := range chain {
		if row.Description != "Mercado" {
			t.Fatalf("row %d description %q, recurring rows are not decorated", i, row.Description)
		}
		wantDue := AddMonths(date(2024, 9, 5), i)
		if !row.DueDate.Equal(wantDue) {
			t.Fatalf("row %d due %v, want %v", i, row.DueDate, wantDue)
		}
	}
}

func TestBuildChainRecurringWithEndDate(t *testing.T) {
	endDate := date(2024, 11, 30)
	input := plainInput(date(2024, 9, 5))
	input.IsRecurring = true
	input.RecurringFrequency = frequencyPtr(models.FrequencyMonthly)
	input.RecurringEndDate = &endDate

	chain := BuildChain(7, &input, date(2024, 9, 5))

	// Sep, Oct, Nov; Dec 5 exceeds the end date
	if len(chain) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(chain))
	}
	if !chain[2].DueDate.Equal(date(2024, 11, 5)) {
		t.Fatalf("last occurrence due %v, want 2024-11-05", chain[2].DueDate)
	}
}

func TestBuildChainWeeklyRecurring(t *testing.T) {
	input := plainInput(date(2024, 12, 10))
	input.IsRecurring = true
	input.RecurringFrequency = frequencyPtr(models.FrequencyWeekly)

	chain := BuildChain(7, &input, date(2024, 12, 10))

	// Dec 10, 17, 24, 31; Jan 7 falls in the next year
	if len(chain) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(chain))
	}
	for i := 1; i < len(chain); i++ {
		want := chain[i-1].DueDate.AddDate(0, 0, 7)
		if !chain[i].DueDate.Equal(want) {
			t.Fatalf("row %d due %v, want %v", i, chain[i].DueDate, want)
		}
	}
}

func TestBuildChainYearlyRecurringWithEndDate(t *testing.T) {
	endDate := date(2026, 6, 1)
	input := plainInput(date(2024, 5, 1))
	input.IsRecurring = true
	input.RecurringFrequency = frequencyPtr(models.FrequencyYearly)
	input.RecurringEndDate = &endDate

	chain := BuildChain(7, &input, date(2024, 5, 1))

	if len(chain) != 3 {
		t.Fatalf("expected 3 rows (2024, 2025, 2026), got %d", len(chain))
	}
	if !chain[2].DueDate.Equal(date(2026, 5, 1)) {
		t.Fatalf("last occurrence due %v, want 2026-05-01", chain[2].DueDate)
	}
}

func TestStripInstallmentPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(2/5) Notebook", "Notebook"},
		{"(10/12) Sofá", "Sofá"},
		{"Notebook", "Notebook"},
		{"(abc) Notebook", "(abc) Notebook"},
	}
	for _, tc := range cases {
		if got := stripInstallmentPrefix(tc.in); got != tc.want {
			t.Fatalf("stripInstallmentPrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildChainUnknownFrequencyStops(t *testing.T) {
	input := plainInput(date(2024, 3, 10))
	input.IsRecurring = true
	input.RecurringFrequency = frequencyPtr(models.RecurringFrequency("daily"))

	chain := BuildChain(7, &input, date(2024, 3, 1))

	if len(chain) != 1 {
		t.Fatalf("unknown frequency should generate no successors, got %d rows", len(chain))
	}
}

func TestNormalizeChainInputClearsStrayFields(t *testing.T) {
	endDate := date(2024, 11, 30)
	input := plainInput(date(2024, 3, 10))
	input.RecurringFrequency = frequencyPtr(models.FrequencyMonthly)
	input.RecurringEndDate = &endDate
	input.Installments = intPtr(5)
	input.CurrentInstallment = intPtr(3)

	normalizeChainInput(&input)

	if input.RecurringFrequency != nil || input.RecurringEndDate != nil {
		t.Fatalf("recurrence fields survived with the flag off: %+v", input)
	}
	if input.Installments != nil || input.CurrentInstallment != nil {
		t.Fatalf("installment fields survived with the flag off: %+v", input)
	}

	chain := BuildChain(7, &input, date(2024, 3, 1))
	if len(chain) != 1 {
		t.Fatalf("normalized plain input should yield one row, got %d", len(chain))
	}
	if chain[0].Description != "Mercado" {
		t.Fatalf("plain row decorated: %q", chain[0].Description)
	}
	if chain[0].IsInstallment() {
		t.Fatal("plain row still reads as an installment member")
	}
}

func TestNormalizeChainInputKeepsActiveModeFields(t *testing.T) {
	input := plainInput(date(2024, 3, 10))
	input.IsInstallment = true
	input.Installments = intPtr(5)
	input.CurrentInstallment = intPtr(3)

	normalizeChainInput(&input)

	if input.Installments == nil || input.CurrentInstallment == nil {
		t.Fatalf("installment fields cleared with the flag on: %+v", input)
	}
}

func TestValidateChainShape(t *testing.T) {
	valid := plainInput(date(2024, 3, 10))

	bothModes := valid
	bothModes.IsRecurring = true
	bothModes.RecurringFrequency = frequencyPtr(models.FrequencyMonthly)
	bothModes.IsInstallment = true
	bothModes.Installments = intPtr(3)
	bothModes.CurrentInstallment = intPtr(1)

	noFrequency := valid
	noFrequency.IsRecurring = true

	noCount := valid
	noCount.IsInstallment = true

	currentPastTotal := valid
	currentPastTotal.IsInstallment = true
	currentPastTotal.Installments = intPtr(3)
	currentPastTotal.CurrentInstallment = intPtr(4)

	negative := valid
	negative.Value = decimal.NewFromInt(-1)

	cases := []struct {
		name    string
		input   TransactionInput
		wantErr bool
	}{
		{"plain input passes", valid, false},
		{"recurring and installment together", bothModes, true},
		{"recurring without frequency", noFrequency, true},
		{"installment without counts", noCount, true},
		{"current past the total", currentPastTotal, true},
		{"negative value", negative, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateChainShape(&tc.input)
			if tc.wantErr && err == nil {
				t.Fatal("expected a validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
