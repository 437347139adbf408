// Package catalog loads recipe and stock seed files written in YAML.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/coffee"
)

// Units is a scalar kept as written in the file so the recipe setters can
// validate it. A null or missing value is the empty string.
type Units string

func (u *Units) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	*u = Units(node.Value)
	return nil
}

// Stock sets initial inventory counters. Nil fields keep the default.
type Stock struct {
	Coffee    *int `yaml:"coffee"`
	Milk      *int `yaml:"milk"`
	Sugar     *int `yaml:"sugar"`
	Chocolate *int `yaml:"chocolate"`
}

type Recipe struct {
	Name      string `yaml:"name"`
	Price     Units  `yaml:"price"`
	Coffee    Units  `yaml:"coffee"`
	Milk      Units  `yaml:"milk"`
	Sugar     Units  `yaml:"sugar"`
	Chocolate Units  `yaml:"chocolate"`
}

// Catalog is the decoded content of a seed file.
type Catalog struct {
	Inventory *Stock   `yaml:"inventory"`
	Recipes   []Recipe `yaml:"recipes"`
}

// Load reads and parses the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Recipes) > coffee.Capacity {
		return nil, fmt.Errorf("parse catalog: %d recipes, at most %d fit", len(c.Recipes), coffee.Capacity)
	}
	return &c, nil
}

// Build validates r and returns the core recipe.
func (r Recipe) Build() (*coffee.Recipe, error) {
	return coffee.BuildRecipe(r.Name, string(r.Price), string(r.Coffee), string(r.Milk), string(r.Sugar), string(r.Chocolate))
}

// Apply loads the stock counters and recipes into m. Recipes are added in
// file order; the first invalid or rejected recipe stops the load.
func (c *Catalog) Apply(m *coffee.Maker) error {
	if s := c.Inventory; s != nil {
		inv := m.Inventory()
		for ing, v := range map[coffee.Ingredient]*int{
			coffee.Coffee:    s.Coffee,
			coffee.Milk:      s.Milk,
			coffee.Sugar:     s.Sugar,
			coffee.Chocolate: s.Chocolate,
		} {
			if v != nil {
				inv.SetUnits(ing, *v)
			}
		}
	}
	for i, r := range c.Recipes {
		built, err := r.Build()
		if err != nil {
			return fmt.Errorf("recipe %d (%q): %w", i, r.Name, err)
		}
		if !m.AddRecipe(built) {
			return fmt.Errorf("recipe %d (%q): rejected by the recipe book", i, r.Name)
		}
	}
	return nil
}
