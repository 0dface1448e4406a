package register

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Cart is the sale being assembled. It reads prices from the catalog only in
// AddItem; after that each LineItem carries its own price.
type Cart struct {
	catalog *Catalog
	items   []LineItem
}

func NewCart(catalog *Catalog) *Cart {
	return &Cart{catalog: catalog}
}

// AddItem appends quantity units of productName at the current catalog price.
func (c *Cart) AddItem(productName string, quantity int) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, invalidInput("quantity must be at least 1, got %d", quantity)
	}
	productName = strings.TrimSpace(productName)
	price, err := c.catalog.Price(productName)
	if err != nil {
		return LineItem{}, err
	}
	item := LineItem{ProductName: productName, Quantity: quantity, UnitPrice: price}
	c.items = append(c.items, item)
	return item, nil
}

// RemoveAt drops the item at the 0-based index.
func (c *Cart) RemoveAt(index int) (LineItem, error) {
	if index < 0 || index >= len(c.items) {
		return LineItem{}, &OutOfRangeError{What: "cart item", Position: index + 1, Len: len(c.items)}
	}
	removed := c.items[index]
	c.items = append(c.items[:index:index], c.items[index+1:]...)
	return removed, nil
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart rows in insertion order.
func (c *Cart) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}

func (c *Cart) Len() int      { return len(c.items) }
func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

func (c *Cart) Total() decimal.Decimal {
	return sumSubtotals(c.items)
}
