// Package catalog loads and indexes the product catalog from products.yaml.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dooor-ai/readiness/pkg/types"
)

// Catalog is the read-only product registry. File order is canonical: IDs and
// Products preserve it, and catalog-wide evaluations report in this order.
type Catalog struct {
	products []types.Product
	index    map[string]int
}

type catalogFile struct {
	Products []types.Product `yaml:"products"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return New(file.Products)
}

// New builds a catalog from an explicit product list.
func New(products []types.Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	index := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		index[p.ID] = i
	}

	return &Catalog{products: products, index: index}, nil
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (types.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return types.Product{}, false
	}
	return c.products[i], true
}

// IDs returns all product ids in canonical order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.products))
	for i, p := range c.products {
		ids[i] = p.ID
	}
	return ids
}

// Products returns all products in canonical order.
func (c *Catalog) Products() []types.Product {
	out := make([]types.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
