package workflow

import (
	"testing"

	"github.com/contaslab/contas_backend/models"
	"github.com/shopspring/decimal"
)

func TestParseImportValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100", "100"},
		{"R$ 1.234,56", "1234.56"},
		{"1234.56", "1234.56"},
		{"99,90", "99.9"},
	}
	for _, tc := range cases {
		got, err := parseImportValue(tc.in)
		if err != nil {
			t.Fatalf("parseImportValue(%q) error: %v", tc.in, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("parseImportValue(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := parseImportValue("abc"); err == nil {
		t.Fatalf("parseImportValue(\"abc\") expected error")
	}
}

func TestParseImportDate(t *testing.T) {
	cases := []string{"15/03/2024", "2024-03-15"}
	for _, raw := range cases {
		parsed, err := parseImportDate(raw)
		if err != nil {
			t.Fatalf("parseImportDate(%q) error: %v", raw, err)
		}
		if parsed.Year() != 2024 || int(parsed.Month()) != 3 || parsed.Day() != 15 {
			t.Fatalf("parseImportDate(%q) = %v", raw, parsed)
		}
	}
	if _, err := parseImportDate("not-a-date"); err == nil {
		t.Fatalf("parseImportDate(\"not-a-date\") expected error")
	}
}

func TestImportFlag(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"SIM", true},
		{"sim", true},
		{" Sim ", true},
		{"NAO", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := importFlag(tc.in); got != tc.want {
			t.Fatalf("importFlag(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCategoryDropdownPaths(t *testing.T) {
	food := &models.Category{ID: 1, Name: "Alimentação"}
	market := &models.Category{ID: 2, Name: "Supermercado", ParentId: intPtr(1)}
	salary := &models.Category{ID: 3, Name: "Salário"}
	byId := map[int]*models.Category{1: food, 2: market, 3: salary}

	paths := categoryDropdownPaths(byId)
	if len(paths) != 3 {
		t.Fatalf("expected 3 paths, got %d: %v", len(paths), paths)
	}
	found := map[string]bool{}
	for _, path := range paths {
		found[path] = true
	}
	for _, want := range []string{"Alimentação", "Alimentação > Supermercado", "Salário"} {
		if !found[want] {
			t.Fatalf("missing path %q in %v", want, paths)
		}
	}
}
