package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Cart is the per-user staging area of intended purchases. There is at
// most one cart per user; it is created lazily and emptied, never deleted.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Lines     []CartLine `json:"lineItems"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartLine is a denormalized snapshot taken at add-time: name, price and
// image reflect what the customer saw, not what the catalog says later.
type CartLine struct {
	ID             string                 `json:"id"`
	CartID         string                 `json:"cartId"`
	ProductID      string                 `json:"productId"`
	ProductName    string                 `json:"productName"`
	UnitPriceCents int64                  `json:"unitPriceCents"`
	ImageURL       string                 `json:"imageUrl,omitempty"`
	Quantity       int                    `json:"quantity"`
	Customization  map[string]interface{} `json:"customization,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// TotalCents sums price x quantity over all lines.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}
	return total
}

// CustomizationKey canonicalizes a customization payload so that two
// payloads with equal content always produce the same key. Lines in the
// same cart with equal (product, customization) must be merged into one,
// and this key is how equality is decided.
func CustomizationKey(customization map[string]interface{}) string {
	if len(customization) == 0 {
		return ""
	}
	keys := make([]string, 0, len(customization))
	for k := range customization {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		ordered = append(ordered, k, customization[k])
	}
	raw, err := json.Marshal(ordered)
	if err != nil {
		return ""
	}
	return string(raw)
}

// SameLineIdentity reports whether two lines must be represented as a
// single merged line.
func SameLineIdentity(a, b CartLine) bool {
	return a.ProductID == b.ProductID &&
		CustomizationKey(a.Customization) == CustomizationKey(b.Customization)
}
