// Package model defines the wire and persistence types used around the
// coffee machine core.
package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Text carries a numeric field exactly as the client sent it. A JSON string
// is unquoted, any other literal is kept verbatim and null becomes "", so the
// core validators see the raw text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

// RecipeInput is the body of recipe add and edit requests.
type RecipeInput struct {
	Name      string `json:"name"`
	Price     Text   `json:"price"`
	Coffee    Text   `json:"coffee"`
	Milk      Text   `json:"milk"`
	Sugar     Text   `json:"sugar"`
	Chocolate Text   `json:"chocolate"`
}

// InventoryInput is the body of an inventory addition.
type InventoryInput struct {
	Coffee    Text `json:"coffee"`
	Milk      Text `json:"milk"`
	Sugar     Text `json:"sugar"`
	Chocolate Text `json:"chocolate"`
}

// Recipe is the committed state of a recipe.
type Recipe struct {
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Coffee    int    `json:"coffee"`
	Milk      int    `json:"milk"`
	Sugar     int    `json:"sugar"`
	Chocolate int    `json:"chocolate"`
}

// Slot is one position of the recipe book; Recipe is nil when empty.
type Slot struct {
	Index  int     `json:"index"`
	Recipe *Recipe `json:"recipe"`
}

// Inventory is the current ingredient stock.
type Inventory struct {
	Coffee    int `json:"coffee"`
	Milk      int `json:"milk"`
	Sugar     int `json:"sugar"`
	Chocolate int `json:"chocolate"`
}

// PurchaseRequest is the body of a purchase.
type PurchaseRequest struct {
	RecipeIndex *int `json:"recipe_index"`
	AmountPaid  *int `json:"amount_paid"`
}

// PurchaseEvent records one purchase attempt, whatever its outcome.
type PurchaseEvent struct {
	TransactionID string    `json:"transaction_id"`
	RequestID     string    `json:"request_id,omitempty"`
	Sequence      uint64    `json:"sequence"`
	RecipeIndex   int       `json:"recipe_index"`
	Recipe        string    `json:"recipe,omitempty"`
	Price         int       `json:"price"`
	AmountPaid    int       `json:"amount_paid"`
	Change        int       `json:"change"`
	Outcome       string    `json:"outcome"`
	Inventory     Inventory `json:"inventory"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Snapshot is the persisted machine state. Version grows with every commit.
type Snapshot struct {
	Version   uint64     `json:"version"`
	Inventory Inventory  `json:"inventory"`
	Recipes   [4]*Recipe `json:"recipes"`
}
