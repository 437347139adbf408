package coffee

import (
	"errors"
	"testing"
)

func TestInventoryDefaults(t *testing.T) {
	inv := NewInventory()
	if inv.Coffee() != 15 || inv.Milk() != 15 || inv.Sugar() != 15 || inv.Chocolate() != 15 {
		t.Fatalf("unexpected defaults: %q", inv.String())
	}
}

func TestInventorySetIgnoresNegative(t *testing.T) {
	inv := NewInventory()
	inv.SetCoffee(10)
	inv.SetMilk(-5)
	inv.SetSugar(0)
	inv.SetChocolate(-1)
	if inv.Coffee() != 10 || inv.Milk() != 15 || inv.Sugar() != 0 || inv.Chocolate() != 15 {
		t.Fatalf("unexpected counters: %q", inv.String())
	}
}

func TestInventoryAddSingle(t *testing.T) {
	adders := map[Ingredient]func(*Inventory, string) error{
		Coffee:    (*Inventory).AddCoffee,
		Milk:      (*Inventory).AddMilk,
		Sugar:     (*Inventory).AddSugar,
		Chocolate: (*Inventory).AddChocolate,
	}
	for _, ing := range Ingredients {
		inv := NewInventory()
		if err := adders[ing](inv, "5"); err != nil {
			t.Fatalf("%s: %v", ing, err)
		}
		if inv.Units(ing) != 20 {
			t.Fatalf("%s = %d, want 20", ing, inv.Units(ing))
		}
		if err := adders[ing](inv, "0"); err != nil || inv.Units(ing) != 20 {
			t.Fatalf("%s add zero: err=%v units=%d", ing, err, inv.Units(ing))
		}
		want := "Units of " + ing.String() + " must be a positive integer"
		for _, bad := range []string{"-10", "abc", "10.5", ""} {
			err := adders[ing](inv, bad)
			var ie *InventoryError
			if !errors.As(err, &ie) || err.Error() != want || ie.Field != ing.String() {
				t.Fatalf("%s(%q) error = %v, want %q", ing, bad, err, want)
			}
			if inv.Units(ing) != 20 {
				t.Fatalf("%s changed after rejected add", ing)
			}
		}
	}
}

func TestAddInventoryAllOrNothing(t *testing.T) {
	cases := []struct {
		name                           string
		coffee, milk, sugar, chocolate string
		field                          string
	}{
		{"bad_coffee", "abc", "10", "10", "10", "coffee"},
		{"bad_milk", "1", "-5", "10", "10", "milk"},
		{"bad_sugar", "1", "1", "1.5", "10", "sugar"},
		{"bad_chocolate", "1", "1", "1", "", "chocolate"},
		{"first_wins", "1", "x", "y", "1", "milk"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := NewInventory()
			err := inv.AddInventory(tc.coffee, tc.milk, tc.sugar, tc.chocolate)
			var ie *InventoryError
			if !errors.As(err, &ie) || ie.Field != tc.field {
				t.Fatalf("error = %v, want field %s", err, tc.field)
			}
			if inv.String() != NewInventory().String() {
				t.Fatalf("partial mutation: %q", inv.String())
			}
		})
	}
	inv := NewInventory()
	if err := inv.AddInventory("10", "0", "1", "2"); err != nil {
		t.Fatal(err)
	}
	if inv.Coffee() != 25 || inv.Milk() != 15 || inv.Sugar() != 16 || inv.Chocolate() != 17 {
		t.Fatalf("unexpected counters: %q", inv.String())
	}
}

func TestEnoughAndUseIngredients(t *testing.T) {
	inv := NewInventory()
	r, _ := BuildRecipe("Mocha", "0", "5", "5", "5", "5")
	if !inv.EnoughIngredients(r) {
		t.Fatalf("expected enough")
	}
	if !inv.UseIngredients(r) {
		t.Fatalf("expected use to succeed")
	}
	if inv.Coffee() != 10 || inv.Milk() != 10 || inv.Sugar() != 10 || inv.Chocolate() != 10 {
		t.Fatalf("unexpected counters: %q", inv.String())
	}

	for _, ing := range Ingredients {
		inv := NewInventory()
		inv.SetUnits(ing, 2)
		before := inv.String()
		if inv.EnoughIngredients(r) {
			t.Fatalf("%s short: expected not enough", ing)
		}
		if inv.UseIngredients(r) {
			t.Fatalf("%s short: expected use to fail", ing)
		}
		if inv.String() != before {
			t.Fatalf("%s short: counters changed", ing)
		}
	}
}

func TestUseIngredientsZeroAmountsAndNil(t *testing.T) {
	inv := NewInventory()
	if !inv.UseIngredients(NewRecipe()) {
		t.Fatalf("zero recipe should be satisfiable")
	}
	if inv.String() != NewInventory().String() {
		t.Fatalf("zero recipe changed counters")
	}
	if inv.EnoughIngredients(nil) || inv.UseIngredients(nil) {
		t.Fatalf("nil recipe must not be satisfiable")
	}
}

func TestInventoryString(t *testing.T) {
	want := "Coffee: 15\nMilk: 15\nSugar: 15\nChocolate: 15\n"
	if got := NewInventory().String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
