package ui

import (
	"strings"
	"testing"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
)

func TestRecipeTable(t *testing.T) {
	out := RecipeTable([]model.Slot{
		{Index: 0, Recipe: &model.Recipe{Name: "Mocha", Price: 75, Coffee: 3, Milk: 1, Sugar: 1, Chocolate: 3}},
		{Index: 1},
	})
	for _, want := range []string{"Slot", "Chocolate", "Mocha", "75"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines < 4 {
		t.Fatalf("expected header, separator and two rows:\n%s", out)
	}
}

func TestMessages(t *testing.T) {
	if !strings.Contains(SuccessMsg("loaded %d", 3), "loaded 3") {
		t.Fatalf("success message lost its text")
	}
	if !strings.Contains(ErrorMsg("bad %s", "file"), "bad file") {
		t.Fatalf("error message lost its text")
	}
}
