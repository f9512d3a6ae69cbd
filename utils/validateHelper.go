package utils

import (
	"context"
	"reflect"

	"github.com/contaslab/contas_backend/config"
)

// check if id exists, using the owner's user_id in WHERE, return RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, userId int, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, userId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

func ResourceCountWhere[T any](ctx context.Context, userId int, cond string, values ...interface{}) (int64, error) {
	db := config.GetDB()
	var model T
	var count int64
	err := db.WithContext(ctx).Model(&model).
		Where("user_id = ?", userId).
		Where(cond, values...).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func ValidateUnique[T any](ctx context.Context, userId int, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, userId, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, userId, column+" = ? AND id != ?", value, exceptId)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrorDuplicateRecord
	}
	return nil
}
