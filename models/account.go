package models

import (
	"context"
	"errors"
	"time"

	"github.com/contaslab/contas_backend/config"
	"github.com/contaslab/contas_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Account struct {
	ID        int             `gorm:"primary_key" json:"id"`
	UserId    int             `gorm:"index;not null" json:"user_id"`
	Name      string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Bank      BankName        `gorm:"type:enum('santander', 'nubank', 'c6bank')" json:"bank"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"balance"`
	IsActive  *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccount struct {
	Name     string          `json:"name" binding:"required"`
	Bank     BankName        `json:"bank" binding:"required"`
	Balance  decimal.Decimal `json:"balance"`
	IsActive *bool           `json:"is_active"`
}

func (input *NewAccount) validate() error {
	if !input.Bank.IsValid() {
		return errors.New("bank not recognized")
	}
	return nil
}

func CreateAccount(ctx context.Context, userId int, input *NewAccount) (*Account, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	// Account names are the lookup key for spreadsheet imports.
	if err := utils.ValidateUnique[Account](ctx, userId, "name", input.Name, 0); err != nil {
		return nil, errors.New("an account with this name already exists")
	}

	account := Account{
		UserId:   userId,
		Name:     input.Name,
		Bank:     input.Bank,
		Balance:  input.Balance,
		IsActive: input.IsActive,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func UpdateAccount(ctx context.Context, userId int, id int, input *NewAccount) (*Account, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Account](ctx, userId, "name", input.Name, id); err != nil {
		return nil, errors.New("an account with this name already exists")
	}

	account, err := utils.FetchModel[Account](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	account.Name = input.Name
	account.Bank = input.Bank
	account.Balance = input.Balance
	if input.IsActive != nil {
		account.IsActive = input.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes the account together with its cards and transactions
// (ownership cascade).
func DeleteAccount(ctx context.Context, userId int, id int) error {
	account, err := utils.FetchModel[Account](ctx, userId, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND account_id = ?", userId, account.ID).Delete(&Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND account_id = ?", userId, account.ID).Delete(&Card{}).Error; err != nil {
			return err
		}
		return tx.Delete(account).Error
	})
}
