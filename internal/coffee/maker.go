package coffee

// Outcome is the result of a purchase attempt.
type Outcome int

const (
	Dispensed Outcome = iota
	NoRecipe
	InsufficientFunds
	InsufficientIngredients
)

func (o Outcome) String() string {
	switch o {
	case Dispensed:
		return "dispensed"
	case NoRecipe:
		return "no_recipe"
	case InsufficientFunds:
		return "insufficient_funds"
	case InsufficientIngredients:
		return "insufficient_ingredients"
	default:
		return "unknown"
	}
}

// Purchase describes a single purchase attempt.
type Purchase struct {
	Index   int
	Recipe  string
	Price   int
	Paid    int
	Change  int
	Outcome Outcome
}

// Maker is the machine: a recipe book and an inventory driven by purchases.
// It is not safe for concurrent use.
type Maker struct {
	book *RecipeBook
	inv  *Inventory
}

// NewMaker returns a machine with an empty recipe book and default stock.
func NewMaker() *Maker {
	return &Maker{book: NewRecipeBook(), inv: NewInventory()}
}

// NewMakerWith composes a machine from existing parts.
func NewMakerWith(book *RecipeBook, inv *Inventory) *Maker {
	return &Maker{book: book, inv: inv}
}

func (m *Maker) Recipes() [Capacity]*Recipe { return m.book.Recipes() }

func (m *Maker) AddRecipe(r *Recipe) bool { return m.book.AddRecipe(r) }

func (m *Maker) DeleteRecipe(index int) (string, bool, error) {
	return m.book.DeleteRecipe(index)
}

func (m *Maker) EditRecipe(index int, r *Recipe) (string, bool, error) {
	return m.book.EditRecipe(index, r)
}

func (m *Maker) AddInventory(coffee, milk, sugar, chocolate string) error {
	return m.inv.AddInventory(coffee, milk, sugar, chocolate)
}

// CheckInventory returns the four-line inventory report.
func (m *Maker) CheckInventory() string { return m.inv.String() }

// Inventory exposes the live inventory.
func (m *Maker) Inventory() *Inventory { return m.inv }

// Purchase sells the recipe at index for amountPaid. Ingredients are only
// deducted when a recipe exists, the payment covers its price and every
// ingredient is in stock; otherwise the full payment is returned as change.
func (m *Maker) Purchase(index, amountPaid int) Purchase {
	p := Purchase{Index: index, Paid: amountPaid, Change: amountPaid}
	r, ok := m.book.Recipe(index)
	if !ok {
		p.Outcome = NoRecipe
		return p
	}
	p.Recipe = r.Name()
	p.Price = r.Price()
	switch {
	case amountPaid < r.Price():
		p.Outcome = InsufficientFunds
	case !m.inv.UseIngredients(r):
		p.Outcome = InsufficientIngredients
	default:
		p.Outcome = Dispensed
		p.Change = amountPaid - r.Price()
	}
	return p
}

// MakeCoffee returns the change owed for buying the recipe at index.
func (m *Maker) MakeCoffee(index, amountPaid int) int {
	return m.Purchase(index, amountPaid).Change
}
