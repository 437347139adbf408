package coffee

// Recipe describes a priced drink and the units of each ingredient it uses.
// Every field is set through its own validating setter; a rejected value
// leaves the previous one in place.
type Recipe struct {
	name    string
	price   int
	amounts [numIngredients]int
}

// NewRecipe returns an empty recipe: no name, zero price, zero amounts.
func NewRecipe() *Recipe {
	return &Recipe{}
}

// BuildRecipe sets name, price and the four amounts in that order and
// returns the first validation error.
func BuildRecipe(name, price, coffee, milk, sugar, chocolate string) (*Recipe, error) {
	r := NewRecipe()
	r.SetName(name)
	if err := r.SetPrice(price); err != nil {
		return nil, err
	}
	for i, text := range [numIngredients]string{coffee, milk, sugar, chocolate} {
		if err := r.SetAmount(Ingredients[i], text); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recipe) Name() string { return r.name }

// SetName stores the name verbatim. An absent name is the empty string.
func (r *Recipe) SetName(name string) { r.name = name }

func (r *Recipe) Price() int { return r.price }

// SetPrice parses text as a non-negative integer price.
func (r *Recipe) SetPrice(text string) error {
	n, ok := parseUnits(text)
	if !ok {
		return &RecipeError{Field: "price", msg: priceMessage}
	}
	r.price = n
	return nil
}

// Amount returns the units of ing the recipe requires.
func (r *Recipe) Amount(ing Ingredient) int { return r.amounts[ing] }

// SetAmount parses text as a non-negative number of units of ing.
func (r *Recipe) SetAmount(ing Ingredient, text string) error {
	n, ok := parseUnits(text)
	if !ok {
		return &RecipeError{Field: ing.String(), msg: unitsMessage(ing)}
	}
	r.amounts[ing] = n
	return nil
}

func (r *Recipe) AmtCoffee() int    { return r.amounts[Coffee] }
func (r *Recipe) AmtMilk() int      { return r.amounts[Milk] }
func (r *Recipe) AmtSugar() int     { return r.amounts[Sugar] }
func (r *Recipe) AmtChocolate() int { return r.amounts[Chocolate] }

func (r *Recipe) SetAmtCoffee(text string) error    { return r.SetAmount(Coffee, text) }
func (r *Recipe) SetAmtMilk(text string) error      { return r.SetAmount(Milk, text) }
func (r *Recipe) SetAmtSugar(text string) error     { return r.SetAmount(Sugar, text) }
func (r *Recipe) SetAmtChocolate(text string) error { return r.SetAmount(Chocolate, text) }

// Equal reports whether both recipes exist and share a name. Price and
// amounts are not compared: the name is the catalog key.
func (r *Recipe) Equal(other *Recipe) bool {
	if r == nil || other == nil {
		return false
	}
	return r.name == other.name
}

// Key is the hash key of the recipe, derived from the name only.
func (r *Recipe) Key() string { return r.name }

func (r *Recipe) String() string { return r.name }
