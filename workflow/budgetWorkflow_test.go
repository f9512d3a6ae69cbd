package workflow

import (
	"testing"

	"github.com/contaslab/contas_backend/models"
	"github.com/shopspring/decimal"
)

func TestProgressColorEndpoints(t *testing.T) {
	cases := []struct {
		progress float64
		want     string
	}{
		{0, "rgb(173,216,230)"},
		{100, "rgb(0,255,0)"},
		{150, "rgb(139,0,0)"},
		{200, "rgb(139,0,0)"},
	}
	for _, tc := range cases {
		if got := ProgressColor(tc.progress); got != tc.want {
			t.Fatalf("ProgressColor(%v) = %q, want %q", tc.progress, got, tc.want)
		}
	}
}

func TestProgressColorInterpolates(t *testing.T) {
	if got := ProgressColor(50); got != "rgb(87,236,115)" {
		t.Fatalf("ProgressColor(50) = %q", got)
	}
	if got := ProgressColor(125); got != "rgb(70,128,0)" {
		t.Fatalf("ProgressColor(125) = %q", got)
	}
}

func TestRound1(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.3},
		{66.666666, 66.7},
		{50.06, 50.1},
		{0, 0},
	}
	for _, tc := range cases {
		if got := round1(tc.in); got != tc.want {
			t.Fatalf("round1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// budgetCategories is a two-root tree with a depth-3 branch:
// Casa > Manutenção > Elétrica, Alimentação > Supermercado, plus an income
// root that must never produce unbudgeted line items.
func budgetCategories() map[int]*models.Category {
	parent := func(id int) *int { return &id }
	return map[int]*models.Category{
		1: {ID: 1, Name: "Casa", Type: models.CategoryTypeExpense},
		2: {ID: 2, Name: "Manutenção", Type: models.CategoryTypeExpense, ParentId: parent(1)},
		3: {ID: 3, Name: "Elétrica", Type: models.CategoryTypeExpense, ParentId: parent(2)},
		4: {ID: 4, Name: "Alimentação", Type: models.CategoryTypeExpense},
		5: {ID: 5, Name: "Supermercado", Type: models.CategoryTypeExpense, ParentId: parent(4)},
		6: {ID: 6, Name: "Salário", Type: models.CategoryTypeIncome},
	}
}

func budgetRow(id int, categoryId int, limit int64) *models.Budget {
	return &models.Budget{ID: id, CategoryId: categoryId, LimitValue: decimal.NewFromInt(limit)}
}

func groupByRoot(groups []RootBudgetGroup) map[int]RootBudgetGroup {
	byRoot := make(map[int]RootBudgetGroup, len(groups))
	for _, g := range groups {
		byRoot[g.RootId] = g
	}
	return byRoot
}

func TestRollupBudgetGroupsUnbudgetedSpend(t *testing.T) {
	budgets := []*models.Budget{budgetRow(10, 2, 500)}
	spent := map[int]decimal.Decimal{
		2: decimal.NewFromInt(120),
		3: decimal.NewFromInt(80), // depth-3 leaf, no budget row
		6: decimal.NewFromInt(4000),
	}

	groups := rollupBudgetGroups(budgets, budgetCategories(), spent)

	if len(groups) != 1 {
		t.Fatalf("expected a single root group, got %d", len(groups))
	}
	casa := groups[0]
	if casa.RootId != 1 {
		t.Fatalf("group root = %d, want Casa (1)", casa.RootId)
	}
	if len(casa.Items) != 2 {
		t.Fatalf("expected budgeted + unbudgeted items, got %d", len(casa.Items))
	}

	var unbudgeted *BudgetLineItem
	for i := range casa.Items {
		if casa.Items[i].CategoryId == 3 {
			unbudgeted = &casa.Items[i]
		}
	}
	if unbudgeted == nil {
		t.Fatal("depth-3 category with spend but no budget row missing from its root group")
	}
	if unbudgeted.BudgetId != nil {
		t.Fatalf("unbudgeted item carries budget id %d", *unbudgeted.BudgetId)
	}
	if !unbudgeted.LimitValue.IsZero() {
		t.Fatalf("unbudgeted item limit = %s, want 0", unbudgeted.LimitValue)
	}
	if !casa.TotalSpent.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("root total spent = %s, want 200 (120 budgeted + 80 unbudgeted)", casa.TotalSpent)
	}
	if !casa.TotalLimit.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("root total limit = %s, want 500", casa.TotalLimit)
	}
}

func TestRollupBudgetGroupsSortedBySpend(t *testing.T) {
	budgets := []*models.Budget{
		budgetRow(10, 2, 500),
		budgetRow(11, 5, 800),
	}
	spent := map[int]decimal.Decimal{
		2: decimal.NewFromInt(100),
		5: decimal.NewFromInt(700),
	}

	groups := rollupBudgetGroups(budgets, budgetCategories(), spent)

	if len(groups) != 2 {
		t.Fatalf("expected two root groups, got %d", len(groups))
	}
	if groups[0].RootId != 4 || groups[1].RootId != 1 {
		t.Fatalf("groups not sorted by total spent descending: %d, %d", groups[0].RootId, groups[1].RootId)
	}
}

func TestRollupBudgetGroupsProgress(t *testing.T) {
	budgets := []*models.Budget{budgetRow(10, 2, 500)}
	spent := map[int]decimal.Decimal{
		2: decimal.NewFromInt(250),
		5: decimal.NewFromInt(90), // spend with no budget anywhere under Alimentação
	}

	byRoot := groupByRoot(rollupBudgetGroups(budgets, budgetCategories(), spent))

	casa := byRoot[1]
	if casa.Progress != 50 {
		t.Fatalf("progress = %v, want 50", casa.Progress)
	}
	if casa.BarColor != ProgressColor(50) {
		t.Fatalf("bar color = %q, want %q", casa.BarColor, ProgressColor(50))
	}

	alimentacao := byRoot[4]
	if alimentacao.Progress != 0 {
		t.Fatalf("zero-limit group progress = %v, want 0", alimentacao.Progress)
	}
	if !alimentacao.TotalSpent.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("zero-limit group spent = %s, want 90", alimentacao.TotalSpent)
	}
}
