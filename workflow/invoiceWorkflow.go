package workflow

import (
	"fmt"
	"sort"
	"time"

	"github.com/contaslab/contas_backend/models"
	"github.com/contaslab/contas_backend/utils"
	"github.com/shopspring/decimal"
)

// CardInvoice is the synthetic row standing in for all of a card's
// transactions in one billing cycle and payment state. A cycle that is only
// partially paid renders as two invoices, one per state.
type CardInvoice struct {
	CardId       int                   `json:"card_id"`
	CardName     string                `json:"card_name"`
	CycleName    string                `json:"cycle_name"`
	Description  string                `json:"description"`
	Value        decimal.Decimal       `json:"value"`
	DueDate      time.Time             `json:"due_date"`
	CloseDate    time.Time             `json:"close_date"`
	PaidAt       *time.Time            `json:"paid_at"`
	Transactions []*models.Transaction `json:"transactions"`
}

// LedgerEntry is one display row: either a plain transaction or a card
// invoice, never both.
type LedgerEntry struct {
	Transaction *models.Transaction `json:"transaction,omitempty"`
	Invoice     *CardInvoice        `json:"invoice,omitempty"`
}

// invoiceMonth maps a transaction's due date onto its invoice's calendar
// month: a due day strictly greater than the card's close day rolls into the
// next month, otherwise the invoice closes in the due date's own month.
func invoiceMonth(card *models.Card, dueDate time.Time) (int, int) {
	year, month := dueDate.Year(), int(dueDate.Month())
	if dueDate.Day() > card.CloseDay {
		return ShiftMonth(year, month, 1)
	}
	return year, month
}

// AggregateInvoices partitions the transactions into plain entries (no card)
// and one invoice per card per cycle per paid/unpaid state. Income-type
// members subtract from the invoice total, expense-type members add, so the
// value is the net amount owed on the statement. Entry order follows the
// input for plain rows and card/cycle order for invoices; callers paginate
// the combined list.
func AggregateInvoices(transactions []*models.Transaction, cards map[int]*models.Card) []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(transactions))

	byCard := make(map[int][]*models.Transaction)
	cardOrder := make([]int, 0)
	for _, transaction := range transactions {
		cardId := utils.DereferencePtr(transaction.CardId, 0)
		if cardId == 0 {
			entries = append(entries, LedgerEntry{Transaction: transaction})
			continue
		}
		if _, seen := byCard[cardId]; !seen {
			cardOrder = append(cardOrder, cardId)
		}
		byCard[cardId] = append(byCard[cardId], transaction)
	}

	for _, cardId := range cardOrder {
		card, ok := cards[cardId]
		if !ok {
			continue
		}
		members := byCard[cardId]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].DueDate.Before(members[j].DueDate)
		})

		invoices := make(map[string]*CardInvoice)
		keyOrder := make([]string, 0)
		for _, member := range members {
			year, month := invoiceMonth(card, member.DueDate)
			key := fmt.Sprintf("%04d-%02d", year, month)
			if member.PaidAt != nil {
				key += "-paid"
			}
			invoice, seen := invoices[key]
			if !seen {
				cycleName := MonthName(year, month)
				invoice = &CardInvoice{
					CardId:      cardId,
					CardName:    card.Name,
					CycleName:   cycleName,
					Description: fmt.Sprintf("Invoice %s - %s", card.Name, cycleName),
					Value:       decimal.Zero,
					DueDate:     time.Date(year, time.Month(month), ClampDayOfMonth(year, month, card.DueDay), 0, 0, 0, 0, time.UTC),
					CloseDate:   time.Date(year, time.Month(month), ClampDayOfMonth(year, month, card.CloseDay), 0, 0, 0, 0, time.UTC),
				}
				invoices[key] = invoice
				keyOrder = append(keyOrder, key)
			}
			if member.Category != nil && member.Category.Type == models.CategoryTypeIncome {
				invoice.Value = invoice.Value.Sub(member.Value)
			} else {
				invoice.Value = invoice.Value.Add(member.Value)
			}
			if member.PaidAt != nil {
				invoice.PaidAt = member.PaidAt
			}
			invoice.Transactions = append(invoice.Transactions, member)
		}

		for _, key := range keyOrder {
			entries = append(entries, LedgerEntry{Invoice: invoices[key]})
		}
	}

	return entries
}
