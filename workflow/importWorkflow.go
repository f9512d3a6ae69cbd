package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/contaslab/contas_backend/models"
	"github.com/contaslab/contas_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const importSheetName = "Transações"

var importHeaders = []string{
	"CONTA",
	"CARTAO",
	"CATEGORIA",
	"DESCRICAO",
	"VALOR",
	"DATA_VENCIMENTO",
	"DATA_PAGAMENTO",
	"É_RECORRENTE?",
	"FREQUENCIA_RECORRENCIA",
	"DATA_FINAL_RECORRENCIA",
	"É_PARCELADO?",
	"QUANTIDADE_PARCELAS",
	"PARCELA_ATUAL",
}

func cellAt(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func parseImportDate(raw string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "2006-01-02", "01-02-06", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	// Excel serial date fallback
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("data inválida: %s", raw)
}

func parseImportValue(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimPrefix(raw, "R$"))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	return decimal.NewFromString(cleaned)
}

func importFlag(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "sim")
}

// ImportTransactions reads the upload workbook's "Transações" sheet and runs
// every filled row through the chain generator. Rows missing account,
// category or value are skipped. The first invalid row aborts the batch with
// a "Linha[N] ..." message; rows imported before it stay persisted, and
// re-uploading the same file duplicates them (the batch is not idempotent).
// Returns every transaction created, chains included.
func ImportTransactions(ctx context.Context, reader io.Reader) ([]models.Transaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}

	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("erro ao processar upload: %w", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows(importSheetName)
	if err != nil {
		return nil, fmt.Errorf("planilha %q não encontrada", importSheetName)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	accountsByName, cardsByName, categoriesByName, err := importLookups(ctx, userId)
	if err != nil {
		return nil, err
	}

	created := make([]models.Transaction, 0)
	for index, row := range rows[1:] {
		accountName := cellAt(row, 0)
		categoryPath := cellAt(row, 2)
		rawValue := cellAt(row, 4)
		if accountName == "" || categoryPath == "" || rawValue == "" {
			continue
		}

		account, ok := accountsByName[accountName]
		if !ok {
			return created, fmt.Errorf("Linha[%d] Conta inválida", index)
		}

		var cardId *int
		if cardName := cellAt(row, 1); cardName != "" {
			card, ok := cardsByName[cardName]
			if !ok || card.AccountId != account.ID {
				return created, fmt.Errorf("Linha[%d] Cartão inválido", index)
			}
			cardId = &card.ID
		}

		segments := strings.Split(categoryPath, " > ")
		category, ok := categoriesByName[strings.TrimSpace(segments[len(segments)-1])]
		if !ok {
			return created, fmt.Errorf("Linha[%d] Categoria inválida", index)
		}

		value, err := parseImportValue(rawValue)
		if err != nil {
			return created, fmt.Errorf("Linha[%d] Valor inválido", index)
		}

		dueDate, err := parseImportDate(cellAt(row, 5))
		if err != nil {
			return created, fmt.Errorf("Linha[%d] Data de vencimento inválida", index)
		}

		var paidAt *time.Time
		if raw := cellAt(row, 6); raw != "" {
			parsed, err := parseImportDate(raw)
			if err != nil {
				return created, fmt.Errorf("Linha[%d] Data de pagamento inválida", index)
			}
			paidAt = &parsed
		}

		isRecurring := importFlag(cellAt(row, 7))
		isInstallment := importFlag(cellAt(row, 10))
		if isRecurring && isInstallment {
			return created, fmt.Errorf("Linha[%d] Transação não pode ser recorrente e parcelada", index)
		}

		input := TransactionInput{
			AccountId:     account.ID,
			CategoryId:    category.ID,
			CardId:        cardId,
			Description:   cellAt(row, 3),
			Value:         value,
			DueDate:       dueDate,
			PaidAt:        paidAt,
			IsInstallment: isInstallment,
		}

		if isRecurring {
			frequency, err := models.ParseRecurringFrequency(cellAt(row, 8))
			if err == nil {
				input.IsRecurring = true
				input.RecurringFrequency = &frequency
				if raw := cellAt(row, 9); raw != "" {
					endDate, err := parseImportDate(raw)
					if err != nil {
						return created, fmt.Errorf("Linha[%d] Data final de recorrência inválida", index)
					}
					input.RecurringEndDate = &endDate
				}
			}
		}

		if isInstallment {
			total, err := strconv.Atoi(cellAt(row, 11))
			if err != nil {
				return created, fmt.Errorf("Linha[%d] Quantidade de parcelas inválida", index)
			}
			current, err := strconv.Atoi(cellAt(row, 12))
			if err != nil {
				return created, fmt.Errorf("Linha[%d] Parcela atual inválida", index)
			}
			input.Installments = &total
			input.CurrentInstallment = &current
		}

		chain, err := CreateTransactionChain(ctx, &input)
		if err != nil {
			return created, fmt.Errorf("Linha[%d] %s", index, err.Error())
		}
		created = append(created, chain...)
	}

	return created, nil
}

func importLookups(ctx context.Context, userId int) (map[string]*models.Account, map[string]*models.Card, map[string]*models.Category, error) {
	accounts, err := utils.FetchAllModels[models.Account](ctx, userId)
	if err != nil {
		return nil, nil, nil, err
	}
	cards, err := utils.FetchAllModels[models.Card](ctx, userId)
	if err != nil {
		return nil, nil, nil, err
	}
	categories, err := utils.FetchAllModels[models.Category](ctx, userId)
	if err != nil {
		return nil, nil, nil, err
	}

	accountsByName := make(map[string]*models.Account, len(accounts))
	for _, account := range accounts {
		accountsByName[account.Name] = account
	}
	cardsByName := make(map[string]*models.Card, len(cards))
	for _, card := range cards {
		cardsByName[card.Name] = card
	}
	categoriesByName := make(map[string]*models.Category, len(categories))
	for _, category := range categories {
		categoriesByName[category.Name] = category
	}
	return accountsByName, cardsByName, categoriesByName, nil
}

// BuildImportTemplate generates the upload template: the transaction sheet
// with dropdown validations and number formats, plus an auxiliary sheet
// listing the user's account, card and category names the dropdowns read
// from. Subcategories render as "Parent > Child" paths.
func BuildImportTemplate(ctx context.Context) (*excelize.File, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}

	accounts, err := utils.FetchAllModels[models.Account](ctx, userId)
	if err != nil {
		return nil, err
	}
	cards, err := utils.FetchAllModels[models.Card](ctx, userId)
	if err != nil {
		return nil, err
	}
	byId, err := models.CategoriesById(ctx, userId)
	if err != nil {
		return nil, err
	}

	accountNames := make([]string, 0, len(accounts))
	for _, account := range accounts {
		accountNames = append(accountNames, account.Name)
	}
	cardNames := make([]string, 0, len(cards))
	for _, card := range cards {
		cardNames = append(cardNames, card.Name)
	}
	categoryPaths := categoryDropdownPaths(byId)

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", importSheetName)
	if _, err := f.NewSheet("Auxiliar"); err != nil {
		return nil, err
	}

	for i, header := range importHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(importSheetName, cell, header)
	}
	f.SetCellValue("Auxiliar", "A1", "CONTA")
	f.SetCellValue("Auxiliar", "B1", "CARTAO")
	f.SetCellValue("Auxiliar", "C1", "CATEGORIA")
	for i, name := range accountNames {
		f.SetCellValue("Auxiliar", "A"+fmt.Sprint(i+2), name)
	}
	for i, name := range cardNames {
		f.SetCellValue("Auxiliar", "B"+fmt.Sprint(i+2), name)
	}
	for i, path := range categoryPaths {
		f.SetCellValue("Auxiliar", "C"+fmt.Sprint(i+2), path)
	}

	// Defaults so the flag columns never come back empty
	for row := 2; row <= 200; row++ {
		f.SetCellValue(importSheetName, "H"+fmt.Sprint(row), "NAO")
		f.SetCellValue(importSheetName, "K"+fmt.Sprint(row), "NAO")
	}

	if err := addTemplateValidations(f, len(accountNames), len(cardNames), len(categoryPaths)); err != nil {
		return nil, err
	}
	if err := addTemplateStyles(f); err != nil {
		return nil, err
	}
	return f, nil
}

func categoryDropdownPaths(byId map[int]*models.Category) []string {
	roots := make([]*models.Category, 0)
	childrenOf := make(map[int][]*models.Category)
	for _, category := range byId {
		if category.ParentId == nil {
			roots = append(roots, category)
		} else {
			childrenOf[*category.ParentId] = append(childrenOf[*category.ParentId], category)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].ID < roots[j].ID })
	for _, children := range childrenOf {
		sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	}
	paths := make([]string, 0, len(byId))
	for _, root := range roots {
		paths = append(paths, strings.TrimSpace(root.Name))
		for _, child := range childrenOf[root.ID] {
			paths = append(paths, strings.TrimSpace(root.Name)+" > "+strings.TrimSpace(child.Name))
		}
	}
	return utils.UniqueSlice(paths)
}

func addTemplateValidations(f *excelize.File, accountCount int, cardCount int, categoryCount int) error {
	sqrefList := func(column string, count int, target string) error {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = target
		dv.SetSqrefDropList(fmt.Sprintf("'Auxiliar'!$%s$2:$%s$%d", column, column, count+1))
		return f.AddDataValidation(importSheetName, dv)
	}
	if accountCount > 0 {
		if err := sqrefList("A", accountCount, "A2:A200"); err != nil {
			return err
		}
	}
	if cardCount > 0 {
		if err := sqrefList("B", cardCount, "B2:B200"); err != nil {
			return err
		}
	}
	if categoryCount > 0 {
		if err := sqrefList("C", categoryCount, "C2:C200"); err != nil {
			return err
		}
	}

	flags := excelize.NewDataValidation(true)
	flags.Sqref = "H2:H200 K2:K200"
	if err := flags.SetDropList([]string{"SIM", "NAO"}); err != nil {
		return err
	}
	if err := f.AddDataValidation(importSheetName, flags); err != nil {
		return err
	}

	frequency := excelize.NewDataValidation(true)
	frequency.Sqref = "I2:I200"
	if err := frequency.SetDropList([]string{"mensal", "semanal", "anual"}); err != nil {
		return err
	}
	if err := f.AddDataValidation(importSheetName, frequency); err != nil {
		return err
	}

	positive := excelize.NewDataValidation(true)
	positive.Sqref = "E2:E200 L2:L200 M2:M200"
	if err := positive.SetRange(0.0, 0.0, excelize.DataValidationTypeDecimal, excelize.DataValidationOperatorGreaterThan); err != nil {
		return err
	}
	return f.AddDataValidation(importSheetName, positive)
}

func addTemplateStyles(f *excelize.File) error {
	currencyFmt := `"R$" #,##0.00`
	dateFmt := "dd/mm/yyyy"
	integerFmt := "0"

	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return err
	}
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return err
	}
	integer, err := f.NewStyle(&excelize.Style{CustomNumFmt: &integerFmt})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(importSheetName, "E2", "E200", currency); err != nil {
		return err
	}
	for _, column := range []string{"F", "G", "J"} {
		if err := f.SetCellStyle(importSheetName, column+"2", column+"200", date); err != nil {
			return err
		}
	}
	for _, column := range []string{"L", "M"} {
		if err := f.SetCellStyle(importSheetName, column+"2", column+"200", integer); err != nil {
			return err
		}
	}
	return nil
}
