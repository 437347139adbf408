package coffee

import "errors"

// ErrSlotOutOfRange is returned when a recipe slot index is outside 0..Capacity-1.
// It signals a caller bug, not invalid user input.
var ErrSlotOutOfRange = errors.New("recipe slot out of range")

const priceMessage = "Price must be a positive integer"

func unitsMessage(ing Ingredient) string {
	return "Units of " + ing.String() + " must be a positive integer"
}

// RecipeError reports a rejected recipe field. The field keeps its previous value.
type RecipeError struct {
	Field string
	msg   string
}

func (e *RecipeError) Error() string { return e.msg }

// InventoryError reports a rejected inventory addition. No counter was changed.
type InventoryError struct {
	Field string
	msg   string
}

func (e *InventoryError) Error() string { return e.msg }

// IsValidation reports whether err is a recipe or inventory validation failure.
func IsValidation(err error) bool {
	var re *RecipeError
	if errors.As(err, &re) {
		return true
	}
	var ie *InventoryError
	return errors.As(err, &ie)
}
