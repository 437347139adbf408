package coffee

import "fmt"

// Capacity is the number of recipe slots in a RecipeBook.
const Capacity = 4

// RecipeBook keeps up to Capacity recipes in fixed, positional slots.
type RecipeBook struct {
	slots [Capacity]*Recipe
}

func NewRecipeBook() *RecipeBook {
	return &RecipeBook{}
}

// NewRecipeBookFrom rebuilds a book with the given slot layout. Names are
// not checked: EditRecipe may leave two slots with the same name.
func NewRecipeBookFrom(slots [Capacity]*Recipe) *RecipeBook {
	return &RecipeBook{slots: slots}
}

// Recipes returns a copy of the slot array; empty slots are nil.
func (b *RecipeBook) Recipes() [Capacity]*Recipe {
	return b.slots
}

// Recipe returns the recipe at index, or false when the index is out of
// range or the slot is empty.
func (b *RecipeBook) Recipe(index int) (*Recipe, bool) {
	if index < 0 || index >= Capacity || b.slots[index] == nil {
		return nil, false
	}
	return b.slots[index], true
}

// AddRecipe stores r in the lowest empty slot. It returns false when r is
// nil, a recipe with the same name is already present, or the book is full.
func (b *RecipeBook) AddRecipe(r *Recipe) bool {
	if r == nil {
		return false
	}
	free := -1
	for i, existing := range b.slots {
		if existing == nil {
			if free < 0 {
				free = i
			}
			continue
		}
		if existing.Equal(r) {
			return false
		}
	}
	if free < 0 {
		return false
	}
	b.slots[free] = r
	return true
}

// DeleteRecipe empties the slot at index and returns the removed name.
// ok is false when the slot was already empty.
func (b *RecipeBook) DeleteRecipe(index int) (name string, ok bool, err error) {
	if err := checkSlot(index); err != nil {
		return "", false, err
	}
	old := b.slots[index]
	if old == nil {
		return "", false, nil
	}
	b.slots[index] = nil
	return old.Name(), true, nil
}

// EditRecipe replaces the recipe at index and returns the previous name.
// ok is false when the slot is empty or r is nil. Names are not checked for
// duplicates here.
func (b *RecipeBook) EditRecipe(index int, r *Recipe) (previous string, ok bool, err error) {
	if err := checkSlot(index); err != nil {
		return "", false, err
	}
	old := b.slots[index]
	if old == nil || r == nil {
		return "", false, nil
	}
	b.slots[index] = r
	return old.Name(), true, nil
}

func checkSlot(index int) error {
	if index < 0 || index >= Capacity {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, index)
	}
	return nil
}
