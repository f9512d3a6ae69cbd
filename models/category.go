package models

import (
	"context"
	"errors"
	"time"

	"github.com/contaslab/contas_backend/config"
	"github.com/contaslab/contas_backend/utils"
	"gorm.io/gorm"
)

type Category struct {
	ID             int          `gorm:"primary_key" json:"id"`
	UserId         int          `gorm:"index;not null" json:"user_id"`
	Name           string       `gorm:"size:100;not null" json:"name" binding:"required"`
	Type           CategoryType `gorm:"type:enum('income', 'expense', 'transfer', 'invoice')" json:"type" binding:"required"`
	Icon           string       `gorm:"size:50" json:"icon"`
	Color          string       `gorm:"size:7" json:"color"`
	ParentId       *int         `gorm:"index" json:"parent_id"`
	SystemCategory bool         `gorm:"not null;default:false" json:"system_category"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	Parent *Category `gorm:"foreignKey:ParentId" json:"parent,omitempty"`
}

type NewCategory struct {
	Name     string       `json:"name" binding:"required"`
	Type     CategoryType `json:"type" binding:"required"`
	Icon     string       `json:"icon"`
	Color    string       `json:"color"`
	ParentId *int         `json:"parent_id"`
}

func (input *NewCategory) validate(ctx context.Context, userId int) error {
	if !input.Type.IsValid() {
		return errors.New("category type not recognized")
	}
	if input.ParentId != nil {
		if err := utils.ValidateResourceId[Category](ctx, userId, *input.ParentId); err != nil {
			return errors.New("parent category not found")
		}
	}
	return nil
}

func CreateCategory(ctx context.Context, userId int, input *NewCategory) (*Category, error) {
	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	category := Category{
		UserId:   userId,
		Name:     input.Name,
		Type:     input.Type,
		Icon:     input.Icon,
		Color:    input.Color,
		ParentId: input.ParentId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func UpdateCategory(ctx context.Context, userId int, id int, input *NewCategory) (*Category, error) {
	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}
	if input.ParentId != nil && *input.ParentId == id {
		return nil, errors.New("category cannot be its own parent")
	}

	category, err := utils.FetchModel[Category](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if category.SystemCategory {
		return nil, errors.New("system categories cannot be changed")
	}

	category.Name = input.Name
	category.Type = input.Type
	category.Icon = input.Icon
	category.Color = input.Color
	category.ParentId = input.ParentId

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category, its subcategories and every
// transaction and budget attached to any of them (ownership cascade).
func DeleteCategory(ctx context.Context, userId int, id int) error {
	category, err := utils.FetchModel[Category](ctx, userId, id)
	if err != nil {
		return err
	}
	if category.SystemCategory {
		return errors.New("system categories cannot be deleted")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var children []Category
		if err := tx.Where("user_id = ? AND parent_id = ?", userId, category.ID).Find(&children).Error; err != nil {
			return err
		}
		ids := []int{category.ID}
		for _, child := range children {
			ids = append(ids, child.ID)
		}
		if err := tx.Where("user_id = ? AND category_id IN ?", userId, ids).Delete(&Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND category_id IN ?", userId, ids).Delete(&Budget{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id IN ?", userId, ids).Delete(&Category{}).Error
	})
}

// CategoriesById loads all of the user's categories keyed by id, for
// walking parent links without repeated point queries.
func CategoriesById(ctx context.Context, userId int) (map[int]*Category, error) {
	categories, err := utils.FetchAllModels[Category](ctx, userId)
	if err != nil {
		return nil, err
	}
	byId := make(map[int]*Category, len(categories))
	for _, c := range categories {
		byId[c.ID] = c
	}
	return byId, nil
}

// RootCategory follows parent links to the topmost ancestor. The walk is
// bounded by the map size so a corrupted parent cycle cannot loop forever.
func RootCategory(byId map[int]*Category, cat *Category) *Category {
	current := cat
	for steps := 0; steps <= len(byId); steps++ {
		if current.ParentId == nil {
			return current
		}
		parent, ok := byId[*current.ParentId]
		if !ok {
			return current
		}
		current = parent
	}
	return current
}
