package models

import (
	"context"
	"errors"
	"time"

	"github.com/contaslab/contas_backend/config"
	"github.com/contaslab/contas_backend/utils"
	"github.com/shopspring/decimal"
)

// Budget is one spending limit per category per calendar month. Month is
// stored as the first day of the month.
type Budget struct {
	ID         int             `gorm:"primary_key" json:"id"`
	UserId     int             `gorm:"index;not null" json:"user_id"`
	CategoryId int             `gorm:"index;not null" json:"category_id" binding:"required"`
	LimitValue decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"limit_value"`
	Month      time.Time       `gorm:"type:date;not null" json:"month"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryId" json:"category,omitempty"`
}

type NewBudget struct {
	CategoryId int             `json:"category_id" binding:"required"`
	LimitValue decimal.Decimal `json:"limit_value" binding:"required"`
	Month      string          `json:"month" binding:"required"`
}

// ParseMonthInput accepts "2006-01", "2006-01-02" or "01/2006" and returns
// the first day of that month.
func ParseMonthInput(monthStr string) (time.Time, error) {
	possibleFormats := []string{"2006-01", "2006-01-02", "01/2006"}
	for _, format := range possibleFormats {
		if t, err := time.Parse(format, monthStr); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.New("invalid month format, try for example '2023-05'")
}

func (input *NewBudget) validate(ctx context.Context, userId int) (time.Time, error) {
	month, err := ParseMonthInput(input.Month)
	if err != nil {
		return time.Time{}, err
	}
	if input.LimitValue.IsNegative() {
		return time.Time{}, errors.New("limit value cannot be negative")
	}
	if err := utils.ValidateResourceId[Category](ctx, userId, input.CategoryId); err != nil {
		return time.Time{}, errors.New("category not found")
	}
	return month, nil
}

func CreateBudget(ctx context.Context, userId int, input *NewBudget) (*Budget, error) {
	month, err := input.validate(ctx, userId)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Budget](ctx, userId, "category_id = ? AND month = ?", input.CategoryId, month)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("budget already exists for this category and month")
	}

	budget := Budget{
		UserId:     userId,
		CategoryId: input.CategoryId,
		LimitValue: input.LimitValue,
		Month:      month,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&budget).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func UpdateBudget(ctx context.Context, userId int, id int, input *NewBudget) (*Budget, error) {
	month, err := input.validate(ctx, userId)
	if err != nil {
		return nil, err
	}

	budget, err := utils.FetchModel[Budget](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	budget.CategoryId = input.CategoryId
	budget.LimitValue = input.LimitValue
	budget.Month = month

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(budget).Error; err != nil {
		return nil, err
	}
	return budget, nil
}

func DeleteBudget(ctx context.Context, userId int, id int) error {
	budget, err := utils.FetchModel[Budget](ctx, userId, id)
	if err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Delete(budget).Error
}

// BudgetsForMonth returns the user's budgets for the given month (first of
// month date), category preloaded.
func BudgetsForMonth(ctx context.Context, userId int, month time.Time) ([]*Budget, error) {
	db := config.GetDB()
	var budgets []*Budget
	err := db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND month = ?", userId, month).
		Find(&budgets).Error
	if err != nil {
		return nil, err
	}
	return budgets, nil
}
