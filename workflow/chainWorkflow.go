package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/contaslab/contas_backend/config"
	"github.com/contaslab/contas_backend/models"
	"github.com/contaslab/contas_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionInput carries everything needed to expand one user-submitted
// transaction into its chain. ParentId is only set when a sub-chain is
// regenerated after an edit.
type TransactionInput struct {
	AccountId          int                        `json:"account_id" binding:"required"`
	CategoryId         int                        `json:"category_id" binding:"required"`
	CardId             *int                       `json:"card_id"`
	Description        string                     `json:"description"`
	Value              decimal.Decimal            `json:"value"`
	DueDate            time.Time                  `json:"due_date" binding:"required"`
	PaidAt             *time.Time                 `json:"paid_at"`
	IsRecurring        bool                       `json:"is_recurring"`
	RecurringFrequency *models.RecurringFrequency `json:"recurring_frequency"`
	RecurringEndDate   *time.Time                 `json:"recurring_end_date"`
	IsInstallment      bool                       `json:"is_installment"`
	Installments       *int                       `json:"installments"`
	CurrentInstallment *int                       `json:"current_installment"`
	ParentId           *int                       `json:"-"`
}

// normalizeChainInput drops the sub-fields of any mode whose flag is off,
// so a plain row can never carry stray installment or recurrence data and
// later masquerade as a chain member.
func normalizeChainInput(input *TransactionInput) {
	if !input.IsRecurring {
		input.RecurringFrequency = nil
		input.RecurringEndDate = nil
	}
	if !input.IsInstallment {
		input.Installments = nil
		input.CurrentInstallment = nil
	}
}

// validateChainShape checks the storage-independent invariants: recurring
// and installment are mutually exclusive, each mode carries its required
// sub-fields, and the value is non-negative.
func validateChainShape(input *TransactionInput) error {
	if input.IsRecurring && input.IsInstallment {
		return errors.New("transaction cannot be recurring and installment at the same time")
	}
	if input.IsRecurring {
		if input.RecurringFrequency == nil || !input.RecurringFrequency.IsValid() {
			return errors.New("recurring transaction requires a valid frequency")
		}
	}
	if input.IsInstallment {
		if input.Installments == nil || input.CurrentInstallment == nil {
			return errors.New("installment transaction requires installments and current installment")
		}
		if *input.Installments < 1 || *input.CurrentInstallment < 1 || *input.CurrentInstallment > *input.Installments {
			return errors.New("current installment must be between 1 and the installment count")
		}
	}
	if input.Value.IsNegative() {
		return errors.New("value cannot be negative")
	}
	return nil
}

// ValidateTransactionInput enforces the chain invariants and checks that
// every referenced entity belongs to the requesting user (a card must also
// belong to the transaction's account). The input is normalized in place.
func ValidateTransactionInput(ctx context.Context, userId int, input *TransactionInput) error {
	if err := validateChainShape(input); err != nil {
		return err
	}
	normalizeChainInput(input)
	if err := utils.ValidateResourceId[models.Account](ctx, userId, input.AccountId); err != nil {
		return errors.New("account not found")
	}
	if err := utils.ValidateResourceId[models.Category](ctx, userId, input.CategoryId); err != nil {
		return errors.New("category not found")
	}
	if input.CardId != nil {
		card, err := utils.FetchModel[models.Card](ctx, userId, *input.CardId)
		if err != nil {
			return errors.New("card not found")
		}
		if card.AccountId != input.AccountId {
			return errors.New("card does not belong to the transaction's account")
		}
	}
	return nil
}

// BuildChain expands one transaction descriptor into the full ordered chain
// (head first). Plain transactions yield a single row. The rows are not yet
// linked: persistence assigns ids and parent links in order.
//
// Installment heads are decorated "(current/total) description" and every
// later installment i gets due date AddMonths(head due, i-current).
// Recurring successors advance by the frequency step until the explicit end
// date, or, when none is set, through the end of today's calendar year.
func BuildChain(userId int, input *TransactionInput, today time.Time) []models.Transaction {
	description := input.Description
	if input.IsInstallment {
		description = installmentLabel(*input.CurrentInstallment, *input.Installments, input.Description)
	}

	head := models.Transaction{
		UserId:             userId,
		AccountId:          input.AccountId,
		CategoryId:         input.CategoryId,
		CardId:             input.CardId,
		ParentId:           input.ParentId,
		Description:        description,
		Value:              input.Value,
		DueDate:            input.DueDate,
		PaidAt:             input.PaidAt,
		IsRecurring:        input.IsRecurring,
		RecurringFrequency: input.RecurringFrequency,
		RecurringEndDate:   input.RecurringEndDate,
		Installments:       input.Installments,
		CurrentInstallment: input.CurrentInstallment,
	}
	chain := []models.Transaction{head}

	if input.IsRecurring && input.RecurringFrequency != nil {
		lastDue := input.DueDate
		for {
			switch *input.RecurringFrequency {
			case models.FrequencyMonthly:
				lastDue = AddMonths(lastDue, 1)
			case models.FrequencyWeekly:
				lastDue = lastDue.AddDate(0, 0, 7)
			case models.FrequencyYearly:
				lastDue = AddMonths(lastDue, 12)
			default:
				// Unknown cadence would never advance lastDue.
				return chain
			}
			if input.RecurringEndDate != nil {
				if lastDue.After(*input.RecurringEndDate) {
					break
				}
			} else if lastDue.Year() > today.Year() {
				break
			}
			chain = append(chain, models.Transaction{
				UserId:             userId,
				AccountId:          input.AccountId,
				CategoryId:         input.CategoryId,
				CardId:             input.CardId,
				Description:        input.Description,
				Value:              input.Value,
				DueDate:            lastDue,
				IsRecurring:        true,
				RecurringFrequency: input.RecurringFrequency,
				RecurringEndDate:   input.RecurringEndDate,
			})
		}
	}

	if input.IsInstallment {
		for installment := *input.CurrentInstallment + 1; installment <= *input.Installments; installment++ {
			current := installment
			chain = append(chain, models.Transaction{
				UserId:             userId,
				AccountId:          input.AccountId,
				CategoryId:         input.CategoryId,
				CardId:             input.CardId,
				Description:        installmentLabel(installment, *input.Installments, input.Description),
				Value:              input.Value,
				DueDate:            AddMonths(input.DueDate, installment-*input.CurrentInstallment),
				Installments:       input.Installments,
				CurrentInstallment: &current,
			})
		}
	}

	return chain
}

// CreateTransactionChain validates the input, expands it in memory and
// persists the whole chain in a single transaction, linking each row to its
// predecessor. On any failure nothing is written. Returns the created rows,
// head first.
func CreateTransactionChain(ctx context.Context, input *TransactionInput) ([]models.Transaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}
	if err := ValidateTransactionInput(ctx, userId, input); err != nil {
		return nil, err
	}

	rows := BuildChain(userId, input, time.Now())

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireUserChainLock(tx, userId); err != nil {
			return err
		}
		defer ReleaseUserChainLock(tx, userId)

		return persistChain(tx, rows)
	})
	if err != nil {
		config.LogError(config.GetLogger(), "chainWorkflow.go", "CreateTransactionChain", "persist", input, err)
		return nil, err
	}
	return rows, nil
}

// persistChain inserts the rows in order, pointing each one at the row
// created just before it. rows[0] keeps whatever ParentId it carries.
func persistChain(tx *gorm.DB, rows []models.Transaction) error {
	for i := range rows {
		if i > 0 {
			parentId := rows[i-1].ID
			rows[i].ParentId = &parentId
		}
		if err := tx.Create(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
