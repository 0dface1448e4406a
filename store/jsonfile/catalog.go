/*
Package jsonfile stores the catalog and exports sessions as JSON documents.

CATALOG DOCUMENT:
  Written as a flat name -> price object, two-space indented:

    {
      "Cerveja": 12,
      "Pastel": 10
    }

  Read in either shape:
    - the flat object above
    - a list of records: [{"name": "Pastel", "price": 10}, ...]
      ("nome"/"preco" keys are accepted for files written by older tills)

  Prices may be JSON numbers or currency strings ("10,50"). Names are
  trimmed. Any record that cannot be coerced to a positive price, a name
  that appears twice once trimmed, or anything after the document makes the
  whole document malformed; the catalog then falls back to its defaults.

WRITES:
  Written to a temp file in the same directory and renamed over the target,
  so a failed write never leaves a truncated catalog behind.
*/
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

// ErrMalformed is returned by Load for documents of the wrong shape.
var ErrMalformed = errors.New("malformed catalog document")

// CatalogFile is a register.CatalogStore backed by a JSON file.
type CatalogFile struct {
	Path string
}

func NewCatalogFile(path string) *CatalogFile {
	return &CatalogFile{Path: path}
}

// Load reads and coerces the catalog document.
func (f *CatalogFile) Load(_ context.Context) (map[string]decimal.Decimal, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return DecodeCatalog(data)
}

// Save replaces the document with prices.
func (f *CatalogFile) Save(_ context.Context, prices map[string]decimal.Decimal) error {
	data, err := EncodeCatalog(prices)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.Path, data)
}

// DecodeCatalog accepts a flat object or a list of records.
func DecodeCatalog(data []byte) (map[string]decimal.Decimal, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}

	prices := make(map[string]decimal.Decimal)
	add := func(name string, raw any) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("%w: product with empty name", ErrMalformed)
		}
		if _, dup := prices[name]; dup {
			return fmt.Errorf("%w: product %q listed twice", ErrMalformed, name)
		}
		price, err := coercePrice(raw)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrMalformed, name, err)
		}
		prices[name] = price
		return nil
	}

	switch v := doc.(type) {
	case map[string]any:
		for name, raw := range v {
			if err := add(name, raw); err != nil {
				return nil, err
			}
		}
	case []any:
		for i, rec := range v {
			obj, ok := rec.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: record %d is not an object", ErrMalformed, i)
			}
			name, ok := firstString(obj, "name", "nome")
			if !ok {
				return nil, fmt.Errorf("%w: record %d has no name", ErrMalformed, i)
			}
			raw, ok := firstValue(obj, "price", "preco")
			if !ok {
				return nil, fmt.Errorf("%w: record %d has no price", ErrMalformed, i)
			}
			if err := add(name, raw); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: expected object or list", ErrMalformed)
	}
	return prices, nil
}

// EncodeCatalog writes the flat-object shape with keys in name order.
func EncodeCatalog(prices map[string]decimal.Decimal) ([]byte, error) {
	names := make([]string, 0, len(prices))
	for name := range prices {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, name := range names {
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, "\n  %s: %s", key, prices[name].String())
	}
	if len(names) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func coercePrice(raw any) (decimal.Decimal, error) {
	var price decimal.Decimal
	switch v := raw.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, err
		}
		price = d
	case string:
		d, ok := register.TryParseAmount(v)
		if !ok {
			return decimal.Zero, fmt.Errorf("price %q is not a number", v)
		}
		price = d
	default:
		return decimal.Zero, fmt.Errorf("price has type %T", raw)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("price %s is not positive", price)
	}
	return price, nil
}

func firstString(obj map[string]any, keys ...string) (string, bool) {
	raw, ok := firstValue(obj, keys...)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func firstValue(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// writeFileAtomic keeps the mode of an existing target, 0644 otherwise.
func writeFileAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
