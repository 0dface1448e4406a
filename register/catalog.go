package register

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Catalog is the name -> unit price registry. Every mutation is persisted
// through the CatalogStore before it becomes visible; a failed write leaves
// the in-memory catalog untouched.
type Catalog struct {
	store  CatalogStore
	prices map[string]decimal.Decimal
	log    *zap.Logger
}

// OpenCatalog loads the catalog from store. Names are trimmed. A missing or
// malformed source, including two names that trim to the same key, yields
// DefaultPrices; the cause is logged, not returned.
func OpenCatalog(ctx context.Context, store CatalogStore, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	loaded, err := store.Load(ctx)
	var prices map[string]decimal.Decimal
	if err == nil {
		prices, err = normalizePrices(loaded)
	}
	if err != nil {
		log.Warn("catalog unavailable, using built-in defaults", zap.Error(err))
		prices = DefaultPrices()
	}
	return &Catalog{store: store, prices: prices, log: log}
}

func normalizePrices(loaded map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(loaded))
	for raw, price := range loaded {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, invalidInput("product with empty name")
		}
		if _, dup := prices[name]; dup {
			return nil, invalidInput("product %q listed twice", name)
		}
		if !price.IsPositive() {
			return nil, invalidInput("product %q has non-positive price %s", name, price)
		}
		prices[name] = price
	}
	return prices, nil
}

// Upsert inserts name or overwrites its price.
func (c *Catalog) Upsert(ctx context.Context, name string, price decimal.Decimal) error {
	name, err := validateProduct(name, price)
	if err != nil {
		return err
	}
	next := c.snapshot()
	next[name] = price
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	c.log.Info("product saved", zap.String("product", name), zap.String("price", price.StringFixed(2)))
	return nil
}

// Rename replaces oldName by newName at newPrice. Items already in a cart or
// a sale keep the name and price they were captured with.
func (c *Catalog) Rename(ctx context.Context, oldName, newName string, newPrice decimal.Decimal) error {
	newName, err := validateProduct(newName, newPrice)
	if err != nil {
		return err
	}
	next := c.snapshot()
	delete(next, strings.TrimSpace(oldName))
	next[newName] = newPrice
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	c.log.Info("product renamed",
		zap.String("from", oldName),
		zap.String("to", newName),
		zap.String("price", newPrice.StringFixed(2)))
	return nil
}

// Remove deletes name. Removing an absent product is a no-op and does not
// touch the store.
func (c *Catalog) Remove(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if _, ok := c.prices[name]; !ok {
		return nil
	}
	next := c.snapshot()
	delete(next, name)
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	c.log.Info("product removed", zap.String("product", name))
	return nil
}

// List returns the catalog sorted by name.
func (c *Catalog) List() []Product {
	products := make([]Product, 0, len(c.prices))
	for name, price := range c.prices {
		products = append(products, Product{Name: name, UnitPrice: price})
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products
}

// Price returns the current price of name, trimmed like every other lookup.
func (c *Catalog) Price(name string) (decimal.Decimal, error) {
	name = strings.TrimSpace(name)
	price, ok := c.prices[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: product %q", ErrNotFound, name)
	}
	return price, nil
}

func (c *Catalog) Len() int { return len(c.prices) }

func (c *Catalog) snapshot() map[string]decimal.Decimal {
	next := make(map[string]decimal.Decimal, len(c.prices)+1)
	for k, v := range c.prices {
		next[k] = v
	}
	return next
}

func (c *Catalog) commit(ctx context.Context, next map[string]decimal.Decimal) error {
	if err := c.store.Save(ctx, next); err != nil {
		c.log.Error("catalog save failed", zap.Error(err))
		return &PersistenceError{Op: "save catalog", Err: err}
	}
	c.prices = next
	return nil
}

func validateProduct(name string, price decimal.Decimal) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidInput("product name is required")
	}
	if !price.IsPositive() {
		return "", invalidInput("price must be greater than zero, got %s", FormatMoney(price))
	}
	return name, nil
}
