package product

import (
	"fmt"
	"regexp"
	"strings"
)

// Product is the canonical listing shape shared by all pipeline stages.
// Provider adapters validate and normalize raw API payloads into this
// type once, at the system boundary; nothing downstream re-parses.
// Treat values as immutable after creation.
type Product struct {
	// ID is globally unique across providers, by convention
	// "<retailer-prefix>:<provider-native-id>".
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	// PriceUnknown marks listings whose price could not be parsed.
	// Price is 0.0 in that case, which is otherwise indistinguishable
	// from a legitimately free item.
	PriceUnknown bool   `json:"price_unknown,omitempty"`
	Currency     string `json:"currency"`
	Retailer     string `json:"retailer"`
	URL          string `json:"url"`
	ImageURL     string `json:"image_url,omitempty"`
	// Rating is in [0,5]; nil when the provider does not report one.
	Rating  *float64               `json:"rating,omitempty"`
	Reviews []Review               `json:"reviews,omitempty"`
	Extra   map[string]interface{} `json:"extra,omitempty"`
}

// Review is a single buyer review. Only Text is consumed by
// sentiment analysis; Rating and Source are carried for display.
type Review struct {
	Rating *float64 `json:"rating,omitempty"`
	Text   string   `json:"text,omitempty"`
	Source string   `json:"source"`
}

// Key identifies a listing for deduplication across providers
type Key struct {
	Retailer string
	ID       string
}

// DedupKey returns the (retailer, id) identity of the product
func (p Product) DedupKey() Key {
	return Key{Retailer: p.Retailer, ID: p.ID}
}

// MakeID builds a provider-prefixed product ID so native IDs from
// different providers can never collide.
func MakeID(prefix, nativeID string) string {
	return fmt.Sprintf("%s:%s", prefix, nativeID)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeTitle reduces a title to lowercase alphanumeric tokens
// separated by single spaces. "Apple AirPods (2nd Gen)" and
// "apple airpods 2nd gen!!" normalize to the same string, which is
// what price comparison groups on. Purely a character-class
// transform: no stemming and no fuzzy matching, so titles that
// differ by a synonym or word order stay in separate groups.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(title), " "))
}
