// Package catalog holds the fixed pizza menu.
package catalog

import "github.com/shopspring/decimal"

type Item struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Size  string          `json:"size"`
}

type Catalog struct {
	items map[string]Item
	order []string
}

var (
	Sizes   = []string{"Small", "Medium", "Large"}
	Meats   = []string{"Pepperoni", "Sausage", "Bacon", "Ham"}
	Veggies = []string{"Mushrooms", "Onions", "Green Peppers", "Olives"}
)

// New builds a catalog that lists items in the given order.
func New(items ...Item) *Catalog {
	c := &Catalog{items: make(map[string]Item, len(items))}
	for _, item := range items {
		if _, ok := c.items[item.Name]; !ok {
			c.order = append(c.order, item.Name)
		}
		c.items[item.Name] = item
	}
	return c
}

func Default() *Catalog {
	return New(
		Item{Name: "Cheese Pizza", Price: decimal.NewFromInt(10), Size: "Medium"},
		Item{Name: "Pepperoni Pizza", Price: decimal.NewFromInt(12), Size: "Medium"},
		Item{Name: "Supreme Pizza", Price: decimal.NewFromInt(14), Size: "Large"},
		Item{Name: "Veggie Pizza", Price: decimal.NewFromInt(13), Size: "Medium"},
	)
}

func (c *Catalog) Lookup(name string) (Item, bool) {
	item, ok := c.items[name]
	return item, ok
}

func (c *Catalog) Items() []Item {
	items := make([]Item, 0, len(c.order))
	for _, name := range c.order {
		items = append(items, c.items[name])
	}
	return items
}
