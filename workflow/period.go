package workflow

import (
	"fmt"
	"time"
)

// statementFirstDay is the first day of the fixed statement window used by
// the dashboard: the nominal month M covers day 20 of M-1 through day 19 of M.
const statementFirstDay = 20

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// ShiftMonth adds delta months to (year, month), wrapping year boundaries.
// Works for any integer delta, positive or negative.
func ShiftMonth(year int, month int, delta int) (int, int) {
	m := month - 1 + delta
	y := year + m/12
	m = m % 12
	if m < 0 {
		m += 12
		y--
	}
	return y, m + 1
}

func DaysInMonth(year int, month int) int {
	// day 0 of the next month is the last day of this month
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func ClampDayOfMonth(year int, month int, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// AddMonths adds calendar months preserving the day-of-month. When the
// target month is shorter, the day clamps to its last valid day
// (Jan 31 + 1 month -> Feb 28/29).
func AddMonths(date time.Time, months int) time.Time {
	year, month := ShiftMonth(date.Year(), int(date.Month()), months)
	day := ClampDayOfMonth(year, month, date.Day())
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, date.Location())
}

// BillingPeriod computes the transaction-collection window of a card invoice
// referenced by its due (year, month): from the prior cycle's close day
// through the day before the current cycle's close day. Cards whose close
// day falls after their due day close in the month before the due month, so
// both boundaries shift back one extra month.
func BillingPeriod(closeDay int, dueDay int, refYear int, refMonth int) (time.Time, time.Time) {
	startShift, endShift := -1, 0
	if closeDay > dueDay {
		startShift, endShift = -2, -1
	}

	startYear, startMonth := ShiftMonth(refYear, refMonth, startShift)
	start := time.Date(startYear, time.Month(startMonth),
		ClampDayOfMonth(startYear, startMonth, closeDay), 0, 0, 0, 0, time.UTC)

	endYear, endMonth := ShiftMonth(refYear, refMonth, endShift)
	closeDate := time.Date(endYear, time.Month(endMonth),
		ClampDayOfMonth(endYear, endMonth, closeDay), 0, 0, 0, 0, time.UTC)
	end := closeDate.AddDate(0, 0, -1)

	return start, end
}

// PeriodRange is the dashboard's fixed statement window for a nominal month:
// day 20 of the previous month through day 19 of the month itself.
func PeriodRange(year int, month int) (time.Time, time.Time) {
	prevYear, prevMonth := ShiftMonth(year, month, -1)
	start := time.Date(prevYear, time.Month(prevMonth), statementFirstDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month), statementFirstDay-1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// NominalMonth resolves which statement month "today" belongs to: from day
// 20 on, the nominal month rolls back one.
func NominalMonth(today time.Time) (int, int) {
	year, month := today.Year(), int(today.Month())
	if today.Day() >= statementFirstDay {
		year, month = ShiftMonth(year, month, -1)
	}
	return year, month
}

// MonthName formats a (year, month) pair as "Janeiro/2006".
func MonthName(year int, month int) string {
	return fmt.Sprintf("%s/%d", monthNames[month-1], year)
}
