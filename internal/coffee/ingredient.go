// Package coffee implements the coffee machine core: recipes, the recipe
// book, ingredient inventory and the purchase transaction.
package coffee

import "strconv"

// Ingredient identifies one of the four stock counters.
type Ingredient int

const (
	Coffee Ingredient = iota
	Milk
	Sugar
	Chocolate
)

const numIngredients = 4

// Ingredients lists every ingredient in report order.
var Ingredients = [numIngredients]Ingredient{Coffee, Milk, Sugar, Chocolate}

var ingredientNames = [numIngredients]string{"coffee", "milk", "sugar", "chocolate"}
var ingredientLabels = [numIngredients]string{"Coffee", "Milk", "Sugar", "Chocolate"}

// String returns the lower-case name used in validation messages.
func (i Ingredient) String() string {
	if i < 0 || int(i) >= numIngredients {
		return "ingredient(" + strconv.Itoa(int(i)) + ")"
	}
	return ingredientNames[i]
}

// Label returns the capitalised name used in the inventory report.
func (i Ingredient) Label() string {
	if i < 0 || int(i) >= numIngredients {
		return i.String()
	}
	return ingredientLabels[i]
}

// parseUnits accepts base-10 integer literals in the int32 range that are >= 0.
func parseUnits(text string) (int, bool) {
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil || n < 0 {
		return 0, false
	}
	return int(n), true
}
