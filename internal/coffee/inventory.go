package coffee

import (
	"strconv"
	"strings"
)

// DefaultUnits is the starting stock of every ingredient.
const DefaultUnits = 15

// Inventory holds the machine's ingredient stock. Counters never go negative.
type Inventory struct {
	units [numIngredients]int
}

// NewInventory returns an inventory with DefaultUnits of each ingredient.
func NewInventory() *Inventory {
	inv := &Inventory{}
	for i := range inv.units {
		inv.units[i] = DefaultUnits
	}
	return inv
}

// Units returns the current stock of ing.
func (inv *Inventory) Units(ing Ingredient) int { return inv.units[ing] }

// SetUnits overwrites the stock of ing. Negative values are ignored.
func (inv *Inventory) SetUnits(ing Ingredient, n int) {
	if n < 0 {
		return
	}
	inv.units[ing] = n
}

// AddUnits parses text as a non-negative amount and adds it to ing.
func (inv *Inventory) AddUnits(ing Ingredient, text string) error {
	n, err := parseAddition(ing, text)
	if err != nil {
		return err
	}
	inv.units[ing] += n
	return nil
}

func (inv *Inventory) Coffee() int    { return inv.units[Coffee] }
func (inv *Inventory) Milk() int      { return inv.units[Milk] }
func (inv *Inventory) Sugar() int     { return inv.units[Sugar] }
func (inv *Inventory) Chocolate() int { return inv.units[Chocolate] }

func (inv *Inventory) SetCoffee(n int)    { inv.SetUnits(Coffee, n) }
func (inv *Inventory) SetMilk(n int)      { inv.SetUnits(Milk, n) }
func (inv *Inventory) SetSugar(n int)     { inv.SetUnits(Sugar, n) }
func (inv *Inventory) SetChocolate(n int) { inv.SetUnits(Chocolate, n) }

func (inv *Inventory) AddCoffee(text string) error    { return inv.AddUnits(Coffee, text) }
func (inv *Inventory) AddMilk(text string) error      { return inv.AddUnits(Milk, text) }
func (inv *Inventory) AddSugar(text string) error     { return inv.AddUnits(Sugar, text) }
func (inv *Inventory) AddChocolate(text string) error { return inv.AddUnits(Chocolate, text) }

// AddInventory validates all four amounts before applying any of them. The
// first invalid amount, in report order, is returned and nothing changes.
func (inv *Inventory) AddInventory(coffee, milk, sugar, chocolate string) error {
	var parsed [numIngredients]int
	for i, text := range [numIngredients]string{coffee, milk, sugar, chocolate} {
		n, err := parseAddition(Ingredients[i], text)
		if err != nil {
			return err
		}
		parsed[i] = n
	}
	for i, n := range parsed {
		inv.units[i] += n
	}
	return nil
}

// EnoughIngredients reports whether every amount in r is in stock.
func (inv *Inventory) EnoughIngredients(r *Recipe) bool {
	if r == nil {
		return false
	}
	for _, ing := range Ingredients {
		if r.Amount(ing) > inv.units[ing] {
			return false
		}
	}
	return true
}

// UseIngredients deducts the recipe's amounts when all are in stock. It
// returns false without touching any counter otherwise.
func (inv *Inventory) UseIngredients(r *Recipe) bool {
	if !inv.EnoughIngredients(r) {
		return false
	}
	for _, ing := range Ingredients {
		inv.units[ing] -= r.Amount(ing)
	}
	return true
}

// String renders one "Label: count" line per ingredient.
func (inv *Inventory) String() string {
	var sb strings.Builder
	for _, ing := range Ingredients {
		sb.WriteString(ing.Label())
		sb.WriteString(": ")
		sb.WriteString(strconv.Itoa(inv.units[ing]))
		sb.WriteString("\n")
	}
	return sb.String()
}

func parseAddition(ing Ingredient, text string) (int, error) {
	n, ok := parseUnits(text)
	if !ok {
		return 0, &InventoryError{Field: ing.String(), msg: unitsMessage(ing)}
	}
	return n, nil
}
