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

// Card close_day and due_day drive the invoice billing cycle: a card's
// statement collects transactions from the prior cycle's close day up to
// one day before the current cycle's close day.
type Card struct {
	ID          int              `gorm:"primary_key" json:"id"`
	UserId      int              `gorm:"index;not null" json:"user_id"`
	AccountId   int              `gorm:"index;not null" json:"account_id" binding:"required"`
	Name        string           `gorm:"size:100;not null" json:"name" binding:"required"`
	Brand       BrandName        `gorm:"type:enum('visa', 'mastercard', 'american_express')" json:"brand"`
	DueDay      int              `gorm:"not null" json:"due_day" binding:"required"`
	CloseDay    int              `gorm:"not null" json:"close_day" binding:"required"`
	CreditLimit *decimal.Decimal `gorm:"type:decimal(15,2)" json:"credit_limit"`
	IsActive    *bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	Account *Account `gorm:"foreignKey:AccountId" json:"account,omitempty"`
}

type NewCard struct {
	AccountId   int              `json:"account_id" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Brand       BrandName        `json:"brand" binding:"required"`
	DueDay      int              `json:"due_day" binding:"required,min=1,max=31"`
	CloseDay    int              `json:"close_day" binding:"required,min=1,max=31"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	IsActive    *bool            `json:"is_active"`
}

func (input *NewCard) validate(ctx context.Context, userId int) error {
	if !input.Brand.IsValid() {
		return errors.New("brand not recognized")
	}
	if input.DueDay < 1 || input.DueDay > 31 {
		return errors.New("due day must be between 1 and 31")
	}
	if input.CloseDay < 1 || input.CloseDay > 31 {
		return errors.New("close day must be between 1 and 31")
	}
	if err := utils.ValidateResourceId[Account](ctx, userId, input.AccountId); err != nil {
		return errors.New("account not found")
	}
	return nil
}

func CreateCard(ctx context.Context, userId int, input *NewCard) (*Card, error) {
	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}
	// Card names are the lookup key for spreadsheet imports.
	if err := utils.ValidateUnique[Card](ctx, userId, "name", input.Name, 0); err != nil {
		return nil, errors.New("a card with this name already exists")
	}

	card := Card{
		UserId:      userId,
		AccountId:   input.AccountId,
		Name:        input.Name,
		Brand:       input.Brand,
		DueDay:      input.DueDay,
		CloseDay:    input.CloseDay,
		CreditLimit: input.CreditLimit,
		IsActive:    input.IsActive,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func UpdateCard(ctx context.Context, userId int, id int, input *NewCard) (*Card, error) {
	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Card](ctx, userId, "name", input.Name, id); err != nil {
		return nil, errors.New("a card with this name already exists")
	}

	card, err := utils.FetchModel[Card](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	card.AccountId = input.AccountId
	card.Name = input.Name
	card.Brand = input.Brand
	card.DueDay = input.DueDay
	card.CloseDay = input.CloseDay
	card.CreditLimit = input.CreditLimit
	if input.IsActive != nil {
		card.IsActive = input.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteCard removes the card and its linked transactions (ownership cascade).
func DeleteCard(ctx context.Context, userId int, id int) error {
	card, err := utils.FetchModel[Card](ctx, userId, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND card_id = ?", userId, card.ID).Delete(&Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(card).Error
	})
}
