package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hermes/internal/adapters/config"
	"hermes/internal/domain/product"
	"hermes/internal/providers/ratelimit"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const (
	defaultEndpoint = "https://serpapi.com/search.json"
	idPrefix        = "serpapi"
)

// Client queries Google Shopping through SerpApi. One query fans out
// to many retailers, which is what makes cross-store price comparison
// possible. Failures degrade to an empty result set.
type Client struct {
	apiKey     string
	endpoint   string
	country    string
	language   string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	log        *logger.Logger
}

// NewClient creates a SerpApi shopping client from configuration
func NewClient(cfg config.SerpApiConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   defaultEndpoint,
		country:    "us",
		language:   "en",
		httpClient: &http.Client{Timeout: 25 * time.Second},
		limiter:    ratelimit.NewLimiter("serpapi", cfg.ReqPerMin),
		log:        logger.Get().With("provider", "serpapi"),
	}
}

// Name returns the provider identifier
func (c *Client) Name() string { return "serpapi" }

type searchResponse struct {
	ShoppingResults []shoppingResult `json:"shopping_results"`
	Error           string           `json:"error"`
}

type shoppingResult struct {
	Position       int      `json:"position"`
	ProductID      string   `json:"product_id"`
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	Source         string   `json:"source"`
	Price          string   `json:"price"`
	ExtractedPrice *float64 `json:"extracted_price"`
	Thumbnail      string   `json:"thumbnail"`
	Rating         *float64 `json:"rating"`
}

// Search queries Google Shopping for listings matching the query
func (c *Client) Search(ctx context.Context, query string, limit int) ([]product.Product, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"engine":  {"google_shopping"},
		"q":       {query},
		"num":     {strconv.Itoa(limit)},
		"gl":      {c.country},
		"hl":      {c.language},
		"api_key": {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create serpapi request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warnf("SerpApi request failed: %v", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warnf("SerpApi returned status %d", resp.StatusCode)
		return nil, nil
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.log.Warnf("SerpApi response decode failed: %v", err)
		return nil, nil
	}
	if data.Error != "" {
		c.log.Warnf("SerpApi error: %s", data.Error)
		return nil, nil
	}

	results := data.ShoppingResults
	if len(results) > limit {
		results = results[:limit]
	}

	out := make([]product.Product, 0, len(results))
	for _, item := range results {
		out = append(out, toProduct(item))
	}

	c.log.Debugf("SerpApi returned %d listings for %q", len(out), query)
	return out, nil
}

// toProduct maps one shopping result to the canonical product shape.
// The retailer is the actual store reported by Google Shopping, not
// the provider name.
func toProduct(item shoppingResult) product.Product {
	price := 0.0
	priceUnknown := true
	currency := "USD"

	if item.ExtractedPrice != nil {
		price = *item.ExtractedPrice
		priceUnknown = false
		if cur, ok := currencyFromPrice(item.Price); ok {
			currency = cur
		}
	} else if v, cur, ok := parsePrice(item.Price); ok {
		price = v
		priceUnknown = false
		currency = cur
	}

	retailer := item.Source
	if retailer == "" {
		retailer = "Google Shopping"
	}

	return product.Product{
		ID:           product.MakeID(idPrefix, fmt.Sprintf("%d:%s", item.Position, item.ProductID)),
		Title:        item.Title,
		Price:        price,
		PriceUnknown: priceUnknown,
		Currency:     currency,
		Retailer:     retailer,
		URL:          item.Link,
		ImageURL:     item.Thumbnail,
		Rating:       item.Rating,
	}
}

var (
	priceNumber  = regexp.MustCompile(`[0-9]+(?:[.,][0-9]{1,2})?`)
	currencyCode = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

var currencyBySymbol = []struct {
	symbol string
	code   string
}{
	// Multi-character symbols first
	{"C$", "CAD"},
	{"A$", "AUD"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"₹", "INR"},
	{"¥", "JPY"},
}

// parsePrice converts strings like "$49.99", "£29.99", "49.00 USD" or
// the range "$49.99 to $59.99" into a value and currency, taking the
// lower bound of ranges.
func parsePrice(s string) (float64, string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "USD", false
	}

	cur, _ := currencyFromPrice(s)

	m := priceNumber.FindString(s)
	if m == "" {
		return 0, cur, false
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, cur, false
	}

	return v, cur, true
}

// currencyFromPrice detects the currency of a price string from its
// leading symbol or an embedded ISO code, defaulting to USD.
func currencyFromPrice(s string) (string, bool) {
	s = strings.TrimSpace(s)

	for _, entry := range currencyBySymbol {
		if strings.HasPrefix(s, entry.symbol) {
			return entry.code, true
		}
	}

	if code := currencyCode.FindString(s); code != "" {
		return code, true
	}

	return "USD", false
}
