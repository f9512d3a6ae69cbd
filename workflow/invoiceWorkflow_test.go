package workflow

import (
	"testing"
	"time"

	"github.com/contaslab/contas_backend/models"
	"github.com/shopspring/decimal"
)

var (
	expenseCategory = &models.Category{ID: 1, Type: models.CategoryTypeExpense}
	incomeCategory  = &models.Category{ID: 2, Type: models.CategoryTypeIncome}
)

func cardTransaction(id int, cardId int, dueDate time.Time, value int64, category *models.Category, paidAt *time.Time) *models.Transaction {
	return &models.Transaction{
		ID:         id,
		UserId:     7,
		AccountId:  1,
		CategoryId: category.ID,
		CardId:     &cardId,
		Value:      decimal.NewFromInt(value),
		DueDate:    dueDate,
		PaidAt:     paidAt,
		Category:   category,
	}
}

func testCards() map[int]*models.Card {
	return map[int]*models.Card{
		1: {ID: 1, Name: "Santander Unique", CloseDay: 14, DueDay: 21},
	}
}

func invoicesOf(entries []LedgerEntry) []*CardInvoice {
	out := make([]*CardInvoice, 0)
	for _, entry := range entries {
		if entry.Invoice != nil {
			out = append(out, entry.Invoice)
		}
	}
	return out
}

func TestAggregateInvoicesMonthAssignment(t *testing.T) {
	transactions := []*models.Transaction{
		// day 20 > close day 14: next month's invoice
		cardTransaction(1, 1, date(2024, 3, 20), 100, expenseCategory, nil),
		// day 10 <= close day 14: same month's invoice
		cardTransaction(2, 1, date(2024, 3, 10), 50, expenseCategory, nil),
	}

	invoices := invoicesOf(AggregateInvoices(transactions, testCards()))
	if len(invoices) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(invoices))
	}

	byCycle := map[string]*CardInvoice{}
	for _, invoice := range invoices {
		byCycle[invoice.CycleName] = invoice
	}
	march, ok := byCycle["Março/2024"]
	if !ok {
		t.Fatalf("missing March invoice: %v", byCycle)
	}
	if !march.Value.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("March invoice value %s, want 50", march.Value)
	}
	april, ok := byCycle["Abril/2024"]
	if !ok {
		t.Fatalf("missing April invoice: %v", byCycle)
	}
	if !april.Value.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("April invoice value %s, want 100", april.Value)
	}
	if !april.DueDate.Equal(date(2024, 4, 21)) || !april.CloseDate.Equal(date(2024, 4, 14)) {
		t.Fatalf("April invoice dates due=%v close=%v", april.DueDate, april.CloseDate)
	}
	if april.Description != "Invoice Santander Unique - Abril/2024" {
		t.Fatalf("unexpected description %q", april.Description)
	}
}

func TestAggregateInvoicesSplitsPaidAndUnpaid(t *testing.T) {
	paidAt := date(2024, 3, 12)
	transactions := []*models.Transaction{
		cardTransaction(1, 1, date(2024, 3, 5), 100, expenseCategory, &paidAt),
		cardTransaction(2, 1, date(2024, 3, 10), 60, expenseCategory, nil),
	}

	invoices := invoicesOf(AggregateInvoices(transactions, testCards()))
	if len(invoices) != 2 {
		t.Fatalf("expected separate paid and unpaid invoices, got %d", len(invoices))
	}

	var paid, unpaid *CardInvoice
	for _, invoice := range invoices {
		if invoice.PaidAt != nil {
			paid = invoice
		} else {
			unpaid = invoice
		}
	}
	if paid == nil || unpaid == nil {
		t.Fatalf("expected one paid and one unpaid invoice")
	}
	if !paid.Value.Equal(decimal.NewFromInt(100)) || !unpaid.Value.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("bucket values paid=%s unpaid=%s", paid.Value, unpaid.Value)
	}
	if !paid.PaidAt.Equal(paidAt) {
		t.Fatalf("paid invoice timestamp %v, want %v", paid.PaidAt, paidAt)
	}
}

func TestAggregateInvoicesIncomeSubtracts(t *testing.T) {
	transactions := []*models.Transaction{
		cardTransaction(1, 1, date(2024, 3, 5), 200, expenseCategory, nil),
		cardTransaction(2, 1, date(2024, 3, 6), 80, incomeCategory, nil),
	}

	invoices := invoicesOf(AggregateInvoices(transactions, testCards()))
	if len(invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(invoices))
	}
	if !invoices[0].Value.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("net invoice value %s, want 120", invoices[0].Value)
	}
	if len(invoices[0].Transactions) != 2 {
		t.Fatalf("expected both members serialized, got %d", len(invoices[0].Transactions))
	}
}

func TestAggregateInvoicesClampsShortMonths(t *testing.T) {
	cards := map[int]*models.Card{
		1: {ID: 1, Name: "C6 Carbon", CloseDay: 31, DueDay: 31},
	}
	transactions := []*models.Transaction{
		cardTransaction(1, 1, date(2024, 2, 10), 40, expenseCategory, nil),
	}

	invoices := invoicesOf(AggregateInvoices(transactions, cards))
	if len(invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(invoices))
	}
	if !invoices[0].DueDate.Equal(date(2024, 2, 29)) || !invoices[0].CloseDate.Equal(date(2024, 2, 29)) {
		t.Fatalf("February dates not clamped: due=%v close=%v", invoices[0].DueDate, invoices[0].CloseDate)
	}
}

func TestAggregateInvoicesPassesPlainTransactionsThrough(t *testing.T) {
	plain := &models.Transaction{ID: 9, UserId: 7, Value: decimal.NewFromInt(10), DueDate: date(2024, 3, 1), Category: expenseCategory}
	entries := AggregateInvoices([]*models.Transaction{plain}, testCards())
	if len(entries) != 1 || entries[0].Transaction == nil || entries[0].Transaction.ID != 9 {
		t.Fatalf("plain transaction not passed through: %+v", entries)
	}
	if entries[0].Invoice != nil {
		t.Fatalf("plain transaction must not become an invoice")
	}
}
