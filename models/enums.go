package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

type CategoryType string

const (
	CategoryTypeIncome   CategoryType = "income"
	CategoryTypeExpense  CategoryType = "expense"
	CategoryTypeTransfer CategoryType = "transfer"
	CategoryTypeInvoice  CategoryType = "invoice"
)

func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeTransfer, CategoryTypeInvoice:
		return true
	}
	return false
}

func (t *CategoryType) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	*t = CategoryType(s)
	if !t.IsValid() {
		return fmt.Errorf("invalid category type %q", s)
	}
	return nil
}

func (t CategoryType) Value() (driver.Value, error) {
	return string(t), nil
}

type RecurringFrequency string

const (
	FrequencyWeekly  RecurringFrequency = "weekly"
	FrequencyMonthly RecurringFrequency = "monthly"
	FrequencyYearly  RecurringFrequency = "yearly"
)

func (f RecurringFrequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// ParseRecurringFrequency accepts both the stored values and the
// Portuguese spreadsheet values used by the import template.
func ParseRecurringFrequency(s string) (RecurringFrequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "semanal":
		return FrequencyWeekly, nil
	case "monthly", "mensal":
		return FrequencyMonthly, nil
	case "yearly", "anual":
		return FrequencyYearly, nil
	}
	return "", fmt.Errorf("invalid recurring frequency %q", s)
}

func (f *RecurringFrequency) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	*f = RecurringFrequency(s)
	if !f.IsValid() {
		return fmt.Errorf("invalid recurring frequency %q", s)
	}
	return nil
}

func (f RecurringFrequency) Value() (driver.Value, error) {
	return string(f), nil
}

type BankName string

const (
	BankSantander BankName = "santander"
	BankNubank    BankName = "nubank"
	BankC6Bank    BankName = "c6bank"
)

func (b BankName) IsValid() bool {
	switch b {
	case BankSantander, BankNubank, BankC6Bank:
		return true
	}
	return false
}

type BrandName string

const (
	BrandVisa            BrandName = "visa"
	BrandMastercard      BrandName = "mastercard"
	BrandAmericanExpress BrandName = "american_express"
)

func (b BrandName) IsValid() bool {
	switch b {
	case BrandVisa, BrandMastercard, BrandAmericanExpress:
		return true
	}
	return false
}

func scanEnumString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", errors.New("enum value must be a string")
}
