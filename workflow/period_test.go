package workflow

import (
	"testing"
	"time"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestShiftMonth(t *testing.T) {
	cases := []struct {
		year, month, delta  int
		wantYear, wantMonth int
	}{
		{2024, 1, -1, 2023, 12},
		{2024, 12, 1, 2025, 1},
		{2024, 6, 0, 2024, 6},
		{2024, 3, -15, 2022, 12},
		{2024, 3, 22, 2026, 1},
	}
	for _, tc := range cases {
		gotYear, gotMonth := ShiftMonth(tc.year, tc.month, tc.delta)
		if gotYear != tc.wantYear || gotMonth != tc.wantMonth {
			t.Fatalf("ShiftMonth(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tc.year, tc.month, tc.delta, gotYear, gotMonth, tc.wantYear, tc.wantMonth)
		}
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{date(2024, 1, 31), 1, date(2024, 2, 29)},
		{date(2023, 1, 31), 1, date(2023, 2, 28)},
		{date(2024, 1, 31), 2, date(2024, 3, 31)},
		{date(2024, 5, 31), 1, date(2024, 6, 30)},
		{date(2024, 3, 15), 12, date(2025, 3, 15)},
		{date(2024, 3, 31), -1, date(2024, 2, 29)},
	}
	for _, tc := range cases {
		got := AddMonths(tc.in, tc.months)
		if !got.Equal(tc.want) {
			t.Fatalf("AddMonths(%v, %d) = %v, want %v", tc.in, tc.months, got, tc.want)
		}
	}
}

func TestClampDayOfMonth(t *testing.T) {
	cases := []struct {
		year, month, day, want int
	}{
		{2024, 2, 31, 29},
		{2023, 2, 31, 28},
		{2024, 4, 31, 30},
		{2024, 1, 31, 31},
		{2024, 1, 5, 5},
	}
	for _, tc := range cases {
		if got := ClampDayOfMonth(tc.year, tc.month, tc.day); got != tc.want {
			t.Fatalf("ClampDayOfMonth(%d, %d, %d) = %d, want %d", tc.year, tc.month, tc.day, got, tc.want)
		}
	}
}

func TestBillingPeriod(t *testing.T) {
	cases := []struct {
		name              string
		closeDay, dueDay  int
		refYear, refMonth int
		wantStart         time.Time
		wantEnd           time.Time
	}{
		{
			name:     "close before due",
			closeDay: 14, dueDay: 21, refYear: 2024, refMonth: 6,
			wantStart: date(2024, 5, 14), wantEnd: date(2024, 6, 13),
		},
		{
			name:     "wrap card shifts back an extra month",
			closeDay: 28, dueDay: 5, refYear: 2024, refMonth: 6,
			wantStart: date(2024, 4, 28), wantEnd: date(2024, 5, 27),
		},
		{
			name:     "close day clamped in short month",
			closeDay: 31, dueDay: 31, refYear: 2024, refMonth: 3,
			wantStart: date(2024, 2, 29), wantEnd: date(2024, 3, 30),
		},
	}
	for _, tc := range cases {
		start, end := BillingPeriod(tc.closeDay, tc.dueDay, tc.refYear, tc.refMonth)
		if !start.Equal(tc.wantStart) || !end.Equal(tc.wantEnd) {
			t.Fatalf("%s: BillingPeriod(%d, %d, %d, %d) = (%v, %v), want (%v, %v)",
				tc.name, tc.closeDay, tc.dueDay, tc.refYear, tc.refMonth, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestPeriodRange(t *testing.T) {
	start, end := PeriodRange(2024, 6)
	if !start.Equal(date(2024, 5, 20)) || !end.Equal(date(2024, 6, 19)) {
		t.Fatalf("PeriodRange(2024, 6) = (%v, %v)", start, end)
	}
	start, end = PeriodRange(2024, 1)
	if !start.Equal(date(2023, 12, 20)) || !end.Equal(date(2024, 1, 19)) {
		t.Fatalf("PeriodRange(2024, 1) = (%v, %v)", start, end)
	}
}

func TestNominalMonth(t *testing.T) {
	cases := []struct {
		today               time.Time
		wantYear, wantMonth int
	}{
		{date(2024, 6, 19), 2024, 6},
		{date(2024, 6, 20), 2024, 5},
		{date(2024, 1, 25), 2023, 12},
	}
	for _, tc := range cases {
		year, month := NominalMonth(tc.today)
		if year != tc.wantYear || month != tc.wantMonth {
			t.Fatalf("NominalMonth(%v) = (%d, %d), want (%d, %d)", tc.today, year, month, tc.wantYear, tc.wantMonth)
		}
	}
}

func TestMonthName(t *testing.T) {
	cases := []struct {
		year, month int
		want        string
	}{
		{2024, 1, "Janeiro/2024"},
		{2024, 6, "Junho/2024"},
		{2025, 12, "Dezembro/2025"},
	}
	for _, tc := range cases {
		if got := MonthName(tc.year, tc.month); got != tc.want {
			t.Fatalf("MonthName(%d, %d) = %q, want %q", tc.year, tc.month, got, tc.want)
		}
	}
}
