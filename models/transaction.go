package models

import (
	"context"
	"time"

	"github.com/contaslab/contas_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one ledger movement. Value is always stored non-negative;
// the sign shown to the user is derived from the category type.
//
// A transaction is either standalone, the head of a recurrence/installment
// chain, or a non-head link of one. ParentId points at the predecessor, so
// the chain is a singly linked forward list: the successor of a row is the
// row whose parent_id equals its id, and each row has at most one successor.
type Transaction struct {
	ID                 int                 `gorm:"primary_key" json:"id"`
	UserId             int                 `gorm:"index;not null" json:"user_id"`
	AccountId          int                 `gorm:"index;not null" json:"account_id"`
	CategoryId         int                 `gorm:"index;not null" json:"category_id"`
	CardId             *int                `gorm:"index" json:"card_id"`
	ParentId           *int                `gorm:"index" json:"parent_id"`
	Description        string              `gorm:"size:255" json:"description"`
	Value              decimal.Decimal     `gorm:"type:decimal(15,2);not null" json:"value"`
	DueDate            time.Time           `gorm:"type:date;not null" json:"due_date"`
	PaidAt             *time.Time          `json:"paid_at"`
	IsRecurring        bool                `gorm:"not null;default:false" json:"is_recurring"`
	RecurringFrequency *RecurringFrequency `gorm:"type:enum('weekly', 'monthly', 'yearly')" json:"recurring_frequency"`
	RecurringEndDate   *time.Time          `gorm:"type:date" json:"recurring_end_date"`
	Installments       *int                `json:"installments"`
	CurrentInstallment *int                `json:"current_installment"`
	CreatedAt          time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	Account  *Account  `gorm:"foreignKey:AccountId" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryId" json:"category,omitempty"`
	Card     *Card     `gorm:"foreignKey:CardId" json:"card,omitempty"`
}

func (t *Transaction) IsInstallment() bool {
	return t.Installments != nil && t.CurrentInstallment != nil
}

// FetchChildTransaction returns the single successor of the given
// transaction (the row whose parent_id equals id), or nil when the chain
// ends there.
func FetchChildTransaction(tx *gorm.DB, userId int, id int) (*Transaction, error) {
	var child Transaction
	err := tx.Where("user_id = ? AND parent_id = ?", userId, id).First(&child).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &child, nil
}

// FetchTransactionById loads one transaction scoped to its owner.
func FetchTransactionById(tx *gorm.DB, userId int, id int) (*Transaction, error) {
	var result Transaction
	err := tx.Where("user_id = ?", userId).First(&result, id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type TransactionFilter struct {
	AccountId    int
	CardId       int
	CategoryId   int
	CategoryType CategoryType
	DueDayStart  *time.Time
	DueDayEnd    *time.Time
	PaidAtStart  *time.Time
	PaidAtEnd    *time.Time
}

var transactionSortMap = map[string]string{
	"id":          "transactions.id",
	"account":     "accounts.name",
	"category":    "categories.name",
	"card":        "cards.name",
	"description": "transactions.description",
	"value":       "transactions.value",
	"due_date":    "transactions.due_date",
	"paid_at":     "transactions.paid_at",
}

// ListTransactions applies filters, sorting and offset pagination, joining
// the related names so callers can sort by them.
func ListTransactions(ctx context.Context, userId int, filter TransactionFilter, sortBy string, sortOrder string, page PageParams) ([]*Transaction, int64, error) {
	db := config.GetDB()

	query := db.WithContext(ctx).Model(&Transaction{}).
		Joins("JOIN accounts ON transactions.account_id = accounts.id").
		Joins("JOIN categories ON transactions.category_id = categories.id").
		Joins("LEFT JOIN cards ON transactions.card_id = cards.id").
		Where("transactions.user_id = ?", userId)

	if filter.AccountId > 0 {
		query = query.Where("transactions.account_id = ?", filter.AccountId)
	}
	if filter.CardId > 0 {
		query = query.Where("transactions.card_id = ?", filter.CardId)
	}
	if filter.CategoryId > 0 {
		query = query.Where("transactions.category_id = ?", filter.CategoryId)
	}
	if filter.CategoryType != "" {
		query = query.Where("categories.type = ?", filter.CategoryType)
	}
	if filter.DueDayStart != nil {
		query = query.Where("transactions.due_date >= ?", *filter.DueDayStart)
	}
	if filter.DueDayEnd != nil {
		query = query.Where("transactions.due_date <= ?", *filter.DueDayEnd)
	}
	if filter.PaidAtStart != nil {
		query = query.Where("transactions.paid_at >= ?", *filter.PaidAtStart)
	}
	if filter.PaidAtEnd != nil {
		query = query.Where("transactions.paid_at <= ?", *filter.PaidAtEnd)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := transactionSortMap[sortBy]
	if !ok {
		column = "transactions.id"
	}
	direction := "ASC"
	if sortOrder == "desc" {
		direction = "DESC"
	}

	var results []*Transaction
	err := query.
		Order(column + " " + direction).
		Scopes(Paginate(page)).
		Preload("Account").
		Preload("Category").
		Preload("Card").
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// TransactionsPaidBetween returns the user's paid transactions in the window,
// most recent first.
func TransactionsPaidBetween(ctx context.Context, userId int, start, end time.Time) ([]*Transaction, error) {
	db := config.GetDB()
	var results []*Transaction
	err := db.WithContext(ctx).
		Preload("Category").
		Preload("Card").
		Where("user_id = ? AND paid_at IS NOT NULL AND paid_at >= ? AND paid_at <= ?", userId, start, end).
		Order("paid_at DESC, updated_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// TransactionsDueBetween returns the user's unpaid transactions whose due
// date falls in the window, latest due first.
func TransactionsDueBetween(ctx context.Context, userId int, start, end time.Time) ([]*Transaction, error) {
	db := config.GetDB()
	var results []*Transaction
	err := db.WithContext(ctx).
		Preload("Category").
		Preload("Card").
		Where("user_id = ? AND paid_at IS NULL AND due_date >= ? AND due_date <= ?", userId, start, end).
		Order("due_date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SpentByCategoryBetween sums paid transaction values per category id inside
// the window.
func SpentByCategoryBetween(ctx context.Context, userId int, start, end time.Time) (map[int]decimal.Decimal, error) {
	db := config.GetDB()
	var rows []struct {
		CategoryId int
		Total      decimal.Decimal
	}
	err := db.WithContext(ctx).Model(&Transaction{}).
		Select("category_id, COALESCE(SUM(value), 0) AS total").
		Where("user_id = ? AND paid_at IS NOT NULL AND paid_at >= ? AND paid_at <= ?", userId, start, end).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	spent := make(map[int]decimal.Decimal, len(rows))
	for _, row := range rows {
		spent[row.CategoryId] = row.Total
	}
	return spent, nil
}

// MarkTransactionPaid stamps paid_at with today's date.
func MarkTransactionPaid(ctx context.Context, userId int, id int) (*Transaction, error) {
	db := config.GetDB()
	transaction, err := FetchTransactionById(db.WithContext(ctx), userId, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	transaction.PaidAt = &now
	if err := db.WithContext(ctx).Save(transaction).Error; err != nil {
		return nil, err
	}
	return transaction, nil
}
