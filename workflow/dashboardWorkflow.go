package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/contaslab/contas_backend/models"
	"github.com/contaslab/contas_backend/utils"
	"github.com/shopspring/decimal"
)

// MonthLink points at an adjacent statement month for navigation.
type MonthLink struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Dashboard is the statement view: paid and pending ledger entries for the
// nominal month window, the inflow/outflow summary and the budget roll-up.
type Dashboard struct {
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	MonthName    string            `json:"month_name"`
	Previous     MonthLink         `json:"previous"`
	Next         MonthLink         `json:"next"`
	PeriodStart  time.Time         `json:"period_start"`
	PeriodEnd    time.Time         `json:"period_end"`
	Inflow       decimal.Decimal   `json:"inflow"`
	Outflow      decimal.Decimal   `json:"outflow"`
	Net          decimal.Decimal   `json:"net"`
	Paid         []LedgerEntry     `json:"paid"`
	TotalPaid    int               `json:"total_paid"`
	Pending      []LedgerEntry     `json:"pending"`
	TotalPending int               `json:"total_pending"`
	Budgets      []RootBudgetGroup `json:"budgets"`
}

// GetDashboard assembles the statement view for the requested month, or for
// the current nominal month when year/month are zero. Paid and pending lists
// run through the invoice aggregator before pagination, so card purchases
// collapse into their invoices.
func GetDashboard(ctx context.Context, year int, month int, paidPage models.PageParams, pendingPage models.PageParams) (*Dashboard, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}
	if year == 0 || month == 0 {
		year, month = NominalMonth(time.Now())
	}
	start, end := PeriodRange(year, month)

	paid, err := models.TransactionsPaidBetween(ctx, userId, start, end)
	if err != nil {
		return nil, err
	}
	pending, err := models.TransactionsDueBetween(ctx, userId, start, end)
	if err != nil {
		return nil, err
	}

	cardList, err := utils.FetchAllModels[models.Card](ctx, userId)
	if err != nil {
		return nil, err
	}
	cards := make(map[int]*models.Card, len(cardList))
	for _, card := range cardList {
		cards[card.ID] = card
	}

	inflow, outflow := decimal.Zero, decimal.Zero
	for _, transaction := range paid {
		if transaction.Category == nil {
			continue
		}
		switch transaction.Category.Type {
		case models.CategoryTypeIncome:
			inflow = inflow.Add(transaction.Value)
		case models.CategoryTypeExpense:
			outflow = outflow.Add(transaction.Value)
		}
	}

	budgets, err := RollupBudgets(ctx, userId, year, month)
	if err != nil {
		return nil, err
	}

	paidEntries := AggregateInvoices(paid, cards)
	pendingEntries := AggregateInvoices(pending, cards)

	prevYear, prevMonth := ShiftMonth(year, month, -1)
	nextYear, nextMonth := ShiftMonth(year, month, 1)

	dashboard := &Dashboard{
		Year:         year,
		Month:        month,
		MonthName:    MonthName(year, month),
		Previous:     MonthLink{Year: prevYear, Month: prevMonth},
		Next:         MonthLink{Year: nextYear, Month: nextMonth},
		PeriodStart:  start,
		PeriodEnd:    end,
		Inflow:       inflow,
		Outflow:      outflow,
		Net:          inflow.Sub(outflow),
		Paid:         models.PaginateSlice(paidEntries, paidPage),
		TotalPaid:    len(paidEntries),
		Pending:      models.PaginateSlice(pendingEntries, pendingPage),
		TotalPending: len(pendingEntries),
		Budgets:      budgets,
	}
	return dashboard, nil
}
