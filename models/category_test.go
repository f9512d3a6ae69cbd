package models

import "testing"

func categoryFixture(id int, name string, parentId *int) *Category {
	return &Category{ID: id, Name: name, Type: CategoryTypeExpense, ParentId: parentId}
}

func TestRootCategory(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	byId := map[int]*Category{
		1: categoryFixture(1, "Casa", nil),
		2: categoryFixture(2, "Manutenção", intPtr(1)),
		3: categoryFixture(3, "Elétrica", intPtr(2)),
		4: categoryFixture(4, "Tomadas", intPtr(3)),
		5: categoryFixture(5, "Órfã", intPtr(99)),
	}

	cases := []struct {
		name     string
		start    int
		wantRoot int
	}{
		{"root resolves to itself", 1, 1},
		{"direct child", 2, 1},
		{"three levels deep", 4, 1},
		{"missing parent stops the walk", 5, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RootCategory(byId, byId[tc.start])
			if got.ID != tc.wantRoot {
				t.Fatalf("RootCategory(%d) = %d, want %d", tc.start, got.ID, tc.wantRoot)
			}
		})
	}
}

func TestRootCategoryCycleTerminates(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	byId := map[int]*Category{
		1: categoryFixture(1, "A", intPtr(2)),
		2: categoryFixture(2, "B", intPtr(1)),
	}
	got := RootCategory(byId, byId[1])
	if got == nil {
		t.Fatal("RootCategory returned nil on a parent cycle")
	}
}
