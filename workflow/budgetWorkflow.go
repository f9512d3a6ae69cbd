package workflow

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/contaslab/contas_backend/models"
	"github.com/shopspring/decimal"
)

// BudgetLineItem is one category's budget (or unbudgeted spend) inside a
// root group. BudgetId is nil for categories that have spend this month but
// no budget row.
type BudgetLineItem struct {
	BudgetId      *int            `json:"budget_id"`
	CategoryId    int             `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	CategoryIcon  string          `json:"category_icon"`
	CategoryColor string          `json:"category_color"`
	LimitValue    decimal.Decimal `json:"limit_value"`
	SpentValue    decimal.Decimal `json:"spent_value"`
}

// RootBudgetGroup accumulates every budget line under its top-level
// category.
type RootBudgetGroup struct {
	RootId     int              `json:"root_id"`
	RootName   string           `json:"root_name"`
	RootIcon   string           `json:"root_icon"`
	RootColor  string           `json:"root_color"`
	Items      []BudgetLineItem `json:"items"`
	TotalLimit decimal.Decimal  `json:"total_limit"`
	TotalSpent decimal.Decimal  `json:"total_spent"`
	Progress   float64          `json:"progress"`
	BarColor   string           `json:"bar_color"`
}

// ProgressColor maps a progress percentage onto the dashboard bar color:
// light blue to green up to 100%, then green to dark red, saturating at 150%.
func ProgressColor(progress float64) string {
	if progress <= 100 {
		ratio := progress / 100
		r := int(math.Round((1-ratio)*173 + ratio*0))
		g := int(math.Round((1-ratio)*216 + ratio*255))
		b := int(math.Round((1-ratio)*230 + ratio*0))
		return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
	}
	excess := math.Min(progress, 150) - 100
	ratio := excess / 50
	r := int(math.Round(ratio * 139))
	g := int(math.Round((1 - ratio) * 255))
	return fmt.Sprintf("rgb(%d,%d,0)", r, g)
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// RollupBudgets aggregates the month's budgets up to each category's
// top-level ancestor. Expense categories with spend but no budget row are
// attached to their root with a zero limit so unbudgeted spend still shows.
// Groups come back sorted by total spent, highest first.
func RollupBudgets(ctx context.Context, userId int, year int, month int) ([]RootBudgetGroup, error) {
	budgets, err := models.BudgetsForMonth(ctx, userId, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, err
	}
	byId, err := models.CategoriesById(ctx, userId)
	if err != nil {
		return nil, err
	}
	start, end := PeriodRange(year, month)
	spentByCategory, err := models.SpentByCategoryBetween(ctx, userId, start, end)
	if err != nil {
		return nil, err
	}
	return rollupBudgetGroups(budgets, byId, spentByCategory), nil
}

// rollupBudgetGroups is the aggregation itself, separated from the fetches.
func rollupBudgetGroups(budgets []*models.Budget, byId map[int]*models.Category, spentByCategory map[int]decimal.Decimal) []RootBudgetGroup {
	groups := make(map[int]*RootBudgetGroup)
	order := make([]int, 0)
	appendItem := func(root *models.Category, item BudgetLineItem) {
		group, seen := groups[root.ID]
		if !seen {
			group = &RootBudgetGroup{
				RootId:    root.ID,
				RootName:  root.Name,
				RootIcon:  root.Icon,
				RootColor: root.Color,
			}
			groups[root.ID] = group
			order = append(order, root.ID)
		}
		group.Items = append(group.Items, item)
		group.TotalLimit = group.TotalLimit.Add(item.LimitValue)
		group.TotalSpent = group.TotalSpent.Add(item.SpentValue)
	}

	budgeted := make(map[int]bool, len(budgets))
	for _, budget := range budgets {
		category, ok := byId[budget.CategoryId]
		if !ok {
			continue
		}
		budgeted[category.ID] = true
		root := models.RootCategory(byId, category)
		budgetId := budget.ID
		appendItem(root, BudgetLineItem{
			BudgetId:      &budgetId,
			CategoryId:    category.ID,
			CategoryName:  category.Name,
			CategoryIcon:  category.Icon,
			CategoryColor: category.Color,
			LimitValue:    budget.LimitValue,
			SpentValue:    spentByCategory[category.ID],
		})
	}

	unbudgeted := make([]int, 0)
	for categoryId := range spentByCategory {
		category, ok := byId[categoryId]
		if !ok || budgeted[categoryId] || category.Type != models.CategoryTypeExpense {
			continue
		}
		if spentByCategory[categoryId].IsZero() {
			continue
		}
		unbudgeted = append(unbudgeted, categoryId)
	}
	sort.Ints(unbudgeted)
	for _, categoryId := range unbudgeted {
		category := byId[categoryId]
		root := models.RootCategory(byId, category)
		appendItem(root, BudgetLineItem{
			CategoryId:    category.ID,
			CategoryName:  category.Name,
			CategoryIcon:  category.Icon,
			CategoryColor: category.Color,
			LimitValue:    decimal.Zero,
			SpentValue:    spentByCategory[categoryId],
		})
	}

	results := make([]RootBudgetGroup, 0, len(order))
	for _, rootId := range order {
		group := groups[rootId]
		if group.TotalLimit.IsPositive() {
			spent, _ := group.TotalSpent.Float64()
			limit, _ := group.TotalLimit.Float64()
			group.Progress = round1(100 * spent / limit)
		}
		group.BarColor = ProgressColor(group.Progress)
		results = append(results, *group)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalSpent.GreaterThan(results[j].TotalSpent)
	})
	return results
}
