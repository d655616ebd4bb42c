package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ProductID is the token id of a registered product instance.
type ProductID int64

func (id ProductID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseProductID accepts the decimal form used in URLs and on the command line.
// Integral floats such as "7.0" or "1e2" are accepted too.
func ParseProductID(s string) (ProductID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ProductID(n), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad product id %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("bad product id %q: not an integer", s)
	}
	return ProductID(int64(f)), nil
}

// UnmarshalJSON accepts 42, 42.0 and "42"; stored carts may carry any of them.
func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseProductID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("bad product id %s: %w", b, err)
	}
	parsed, err := ParseProductID(n.String())
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

type CartItem struct {
	ID     ProductID `json:"id"`
	Name   string    `json:"name"`
	Serial string    `json:"serial"`
	Image  string    `json:"image"`
	URL    string    `json:"url"`
}

// Add returns items with item appended, or an unchanged copy if its id is already present.
func Add(items []CartItem, item CartItem) []CartItem {
	out := clone(items)
	if Contains(out, item.ID) {
		return out
	}
	return append(out, item)
}

// Remove returns items without any entry carrying id.
func Remove(items []CartItem, id ProductID) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func Contains(items []CartItem, id ProductID) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Dedupe keeps the first occurrence of every id, preserving order.
func Dedupe(items []CartItem) []CartItem {
	seen := make(map[ProductID]struct{}, len(items))
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

func clone(items []CartItem) []CartItem {
	out := make([]CartItem, len(items), len(items)+1)
	copy(out, items)
	return out
}
