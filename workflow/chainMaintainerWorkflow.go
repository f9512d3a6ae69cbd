package workflow

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/contaslab/contas_backend/config"
	"github.com/contaslab/contas_backend/models"
	"github.com/contaslab/contas_backend/utils"
	"gorm.io/gorm"
)

var installmentPrefix = regexp.MustCompile(`^\(\d+/\d+\) `)

func stripInstallmentPrefix(description string) string {
	return installmentPrefix.ReplaceAllString(description, "")
}

func installmentLabel(current int, total int, description string) string {
	return fmt.Sprintf("(%d/%d) %s", current, total, description)
}

// relabelInstallmentMember rewrites one ancestor's description and
// installment count for a shrunken chain. Reports false when the row is not
// an installment member, which ends the backward walk.
func relabelInstallmentMember(parent *models.Transaction, newTotal int, description string) bool {
	if !parent.IsInstallment() {
		return false
	}
	parent.Description = installmentLabel(*parent.CurrentInstallment, newTotal, description)
	total := newTotal
	parent.Installments = &total
	return true
}

// chainEditAction names how an edit affects the rest of the chain.
type chainEditAction int

const (
	chainEditPlain chainEditAction = iota
	chainEditDisableRecurring
	chainEditEnableRecurring
	chainEditReshapeRecurring
	chainEditDisableInstallment
	chainEditReshapeInstallment
)

// recurrenceChanged reports whether an edit alters the cadence or the end
// date of a recurring row.
func recurrenceChanged(existing *models.Transaction, input *TransactionInput) bool {
	if (existing.RecurringFrequency == nil) != (input.RecurringFrequency == nil) {
		return true
	}
	if existing.RecurringFrequency != nil && *existing.RecurringFrequency != *input.RecurringFrequency {
		return true
	}
	if (existing.RecurringEndDate == nil) != (input.RecurringEndDate == nil) {
		return true
	}
	if existing.RecurringEndDate != nil && !existing.RecurringEndDate.Equal(*input.RecurringEndDate) {
		return true
	}
	return false
}

// chainEditActionFor decides which repair an edit needs. Recurrence
// transitions win over installment ones; a recurring edit that keeps the
// flag on but changes cadence or end date regenerates downstream so the
// stored occurrences match the new schedule.
func chainEditActionFor(existing *models.Transaction, input *TransactionInput) chainEditAction {
	switch {
	case existing.IsRecurring && !input.IsRecurring:
		return chainEditDisableRecurring
	case !existing.IsRecurring && input.IsRecurring:
		return chainEditEnableRecurring
	case existing.IsRecurring && input.IsRecurring && recurrenceChanged(existing, input):
		return chainEditReshapeRecurring
	case existing.IsInstallment() && !input.IsInstallment:
		return chainEditDisableInstallment
	case input.IsInstallment:
		return chainEditReshapeInstallment
	default:
		return chainEditPlain
	}
}

// chainRemovalPlan captures the ancestor repair a deletion requires.
type chainRemovalPlan struct {
	relabel            bool
	relabelTotal       int
	relabelDescription string
}

// planChainRemoval decides the repair for deleting one row. Removing an
// installment member shrinks the plan by one, so surviving ancestors are
// relabelled against installments-1; plain and recurring rows need none.
func planChainRemoval(existing *models.Transaction) chainRemovalPlan {
	if !existing.IsInstallment() {
		return chainRemovalPlan{}
	}
	return chainRemovalPlan{
		relabel:            true,
		relabelTotal:       *existing.Installments - 1,
		relabelDescription: stripInstallmentPrefix(existing.Description),
	}
}

// CleanupNextTransactions walks the chain forward from the given row
// (successor = row whose parent_id equals the current id) and deletes every
// successor found.
func CleanupNextTransactions(tx *gorm.DB, userId int, headId int) error {
	currentId := headId
	for {
		child, err := models.FetchChildTransaction(tx, userId, currentId)
		if err != nil {
			return err
		}
		if child == nil {
			return nil
		}
		if err := tx.Delete(&models.Transaction{}, child.ID).Error; err != nil {
			return err
		}
		currentId = child.ID
	}
}

// ModifyParentTransactionInfo walks the chain backward starting at
// startParentId, rewriting each ancestor's description to
// "(current/newTotal) description" and its installment count to newTotal.
// Ancestors that are not installment members end the walk.
func ModifyParentTransactionInfo(tx *gorm.DB, userId int, description string, newTotal int, startParentId *int) error {
	parentId := startParentId
	for parentId != nil {
		parent, err := models.FetchTransactionById(tx, userId, *parentId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if !relabelInstallmentMember(parent, newTotal, description) {
			return nil
		}
		if err := tx.Save(parent).Error; err != nil {
			return err
		}
		parentId = parent.ParentId
	}
	return nil
}

// propagateRecurringEndDate walks backward from startParentId stamping the
// given end date on every recurring ancestor up to the topmost one.
func propagateRecurringEndDate(tx *gorm.DB, userId int, endDate time.Time, startParentId *int) error {
	parentId := startParentId
	for parentId != nil {
		parent, err := models.FetchTransactionById(tx, userId, *parentId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if !parent.IsRecurring {
			return nil
		}
		end := endDate
		parent.RecurringEndDate = &end
		if err := tx.Save(parent).Error; err != nil {
			return err
		}
		parentId = parent.ParentId
	}
	return nil
}

// applyPlainFields copies the editable non-chain fields onto an existing row.
func applyPlainFields(transaction *models.Transaction, input *TransactionInput) {
	transaction.AccountId = input.AccountId
	transaction.CategoryId = input.CategoryId
	transaction.CardId = input.CardId
	transaction.Value = input.Value
	transaction.DueDate = input.DueDate
	transaction.PaidAt = input.PaidAt
}

// UpdateTransactionChain edits one transaction and repairs its chain under
// the per-user lock, all in a single storage transaction:
//
//   - recurrence turned off: truncate downstream, clear the recurrence
//     fields on this row, and push its due date up the ancestor chain as the
//     new recurring end date;
//   - recurrence turned on: truncate downstream, delete the edited row and
//     regenerate a fresh chain in its place (same predecessor);
//   - recurrence kept on but cadence or end date changed: truncate
//     downstream and regenerate, so stored occurrences follow the new
//     schedule;
//   - installment turned off: truncate downstream, relabel ancestors with
//     total = current-1, and replace the row with a plain one (decoration
//     stripped);
//   - installment turned on: relabel ancestors with the new total, truncate
//     downstream, and regenerate;
//   - otherwise: a plain in-place field update.
//
// Regeneration is delete-then-recreate, so paid state on downstream
// occurrences does not survive a regenerating edit.
func UpdateTransactionChain(ctx context.Context, id int, input *TransactionInput) (*models.Transaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}
	if err := ValidateTransactionInput(ctx, userId, input); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var result *models.Transaction
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireUserChainLock(tx, userId); err != nil {
			return err
		}
		defer ReleaseUserChainLock(tx, userId)

		existing, err := models.FetchTransactionById(tx, userId, id)
		if err != nil {
			return err
		}

		switch chainEditActionFor(existing, input) {
		case chainEditDisableRecurring:
			if err := CleanupNextTransactions(tx, userId, existing.ID); err != nil {
				return err
			}
			applyPlainFields(existing, input)
			existing.Description = input.Description
			existing.IsRecurring = false
			existing.RecurringFrequency = nil
			existing.RecurringEndDate = nil
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			if err := propagateRecurringEndDate(tx, userId, existing.DueDate, existing.ParentId); err != nil {
				return err
			}
			result = existing
			return nil

		case chainEditEnableRecurring, chainEditReshapeRecurring:
			if err := CleanupNextTransactions(tx, userId, existing.ID); err != nil {
				return err
			}
			return regenerateChain(tx, userId, existing, input, &result)

		case chainEditDisableInstallment:
			if err := CleanupNextTransactions(tx, userId, existing.ID); err != nil {
				return err
			}
			input.Description = stripInstallmentPrefix(input.Description)
			if err := ModifyParentTransactionInfo(tx, userId, input.Description, *existing.CurrentInstallment-1, existing.ParentId); err != nil {
				return err
			}
			return regenerateChain(tx, userId, existing, input, &result)

		case chainEditReshapeInstallment:
			if existing.IsInstallment() {
				if err := ModifyParentTransactionInfo(tx, userId, stripInstallmentPrefix(input.Description), *input.Installments, existing.ParentId); err != nil {
					return err
				}
			}
			if err := CleanupNextTransactions(tx, userId, existing.ID); err != nil {
				return err
			}
			return regenerateChain(tx, userId, existing, input, &result)

		default:
			applyPlainFields(existing, input)
			existing.Description = input.Description
			existing.RecurringFrequency = input.RecurringFrequency
			existing.RecurringEndDate = input.RecurringEndDate
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			result = existing
			return nil
		}
	})
	if err != nil {
		config.LogError(config.GetLogger(), "chainMaintainerWorkflow.go", "UpdateTransactionChain", "update", input, err)
		return nil, err
	}
	return result, nil
}

// regenerateChain deletes the edited row and builds a fresh chain in its
// place, keeping the predecessor link intact. The new head replaces the
// deleted row.
func regenerateChain(tx *gorm.DB, userId int, existing *models.Transaction, input *TransactionInput, result **models.Transaction) error {
	input.ParentId = existing.ParentId
	if err := tx.Delete(&models.Transaction{}, existing.ID).Error; err != nil {
		return err
	}
	rows := BuildChain(userId, input, time.Now())
	if err := persistChain(tx, rows); err != nil {
		return err
	}
	*result = &rows[0]
	return nil
}

// DeleteTransactionChain removes one transaction and repairs its chain: an
// installment member first relabels its ancestors against the shrunken
// total (installments-1, the plan now has one fewer), then everything
// downstream of the row is deleted, then the row itself. Plain rows delete
// with no side effects.
func DeleteTransactionChain(ctx context.Context, id int) error {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return errors.New("user id is required")
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireUserChainLock(tx, userId); err != nil {
			return err
		}
		defer ReleaseUserChainLock(tx, userId)

		existing, err := models.FetchTransactionById(tx, userId, id)
		if err != nil {
			return err
		}

		if plan := planChainRemoval(existing); plan.relabel {
			if err := ModifyParentTransactionInfo(tx, userId, plan.relabelDescription, plan.relabelTotal, existing.ParentId); err != nil {
				return err
			}
		}
		if err := CleanupNextTransactions(tx, userId, existing.ID); err != nil {
			return err
		}
		return tx.Delete(&models.Transaction{}, existing.ID).Error
	})
	if err != nil {
		config.LogError(config.GetLogger(), "chainMaintainerWorkflow.go", "DeleteTransactionChain", "delete", id, err)
		return err
	}
	return nil
}
