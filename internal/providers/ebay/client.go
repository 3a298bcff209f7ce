package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hermes/internal/adapters/config"
	"hermes/internal/domain/product"
	"hermes/internal/providers/ratelimit"
	"hermes/internal/providers/retry"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const (
	tokenEndpointProd = "https://api.ebay.com/identity/v1/oauth2/token"
	tokenEndpointSbx  = "https://api.sandbox.ebay.com/identity/v1/oauth2/token"

	browseEndpointProd = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	browseEndpointSbx  = "https://api.sandbox.ebay.com/buy/browse/v1/item_summary/search"

	idPrefix     = "ebay"
	retailerName = "eBay"
)

// Client queries the eBay Buy Browse API using a client-credentials
// OAuth grant. Transient upstream failures are absorbed: Search logs
// and returns an empty result set instead of an error.
type Client struct {
	clientID     string
	clientSecret string
	scopes       []string
	marketplace  string

	tokenURL  string
	browseURL string

	httpClient *http.Client
	tokens     tokenCache
	limiter    *ratelimit.Limiter
	retrier    *retry.Middleware
	log        *logger.Logger
}

// NewClient creates an eBay Browse client from configuration
func NewClient(cfg config.EbayConfig) *Client {
	tokenURL := tokenEndpointProd
	browseURL := browseEndpointProd
	if cfg.Env == "sandbox" {
		tokenURL = tokenEndpointSbx
		browseURL = browseEndpointSbx
	}

	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scopes:       cfg.ScopeList(),
		marketplace:  cfg.Marketplace,
		tokenURL:     tokenURL,
		browseURL:    browseURL,
		httpClient:   &http.Client{Timeout: 20 * time.Second},
		limiter:      ratelimit.NewLimiter("ebay", cfg.ReqPerMin),
		retrier:      retry.New(retry.DefaultConfig()),
		log:          logger.Get().With("provider", "ebay"),
	}
}

// Name returns the provider identifier
func (c *Client) Name() string { return "ebay" }

// Browse API response structures
type browseResponse struct {
	ItemSummaries []itemSummary `json:"itemSummaries"`
}

type itemSummary struct {
	ItemID              string       `json:"itemId"`
	Title               string       `json:"title"`
	Price               *moneyValue  `json:"price"`
	ItemWebURL          string       `json:"itemWebUrl"`
	ItemAffiliateWebURL string       `json:"itemAffiliateWebUrl"`
	Image               *imageRef    `json:"image"`
	ThumbnailImages     []imageRef   `json:"thumbnailImages"`
	BuyerReviews        *buyerReview `json:"buyerReviews"`
}

type moneyValue struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type imageRef struct {
	ImageURL string `json:"imageUrl"`
}

type buyerReview struct {
	RatingAverage *float64 `json:"ratingAverage"`
	ReviewCount   int      `json:"reviewCount"`
}

// httpStatusError carries the status code for retry classification
type httpStatusError struct {
	code int
	body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("ebay browse returned %d: %s", e.code, e.body)
}

func (e *httpStatusError) StatusCode() int { return e.code }

// Search queries the Browse API for listings matching the query.
// All failures short of programmer error degrade to an empty slice.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]product.Product, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var data browseResponse
	err := c.retrier.Do(ctx, func() error {
		return c.browse(ctx, query, limit, &data)
	})
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrProviderAuth):
			c.log.Errorf("eBay OAuth failed: %v", err)
		case errors.Is(err, errors.ErrRateLimitExceeded):
			c.log.Warnf("eBay rate limited: %v", err)
		default:
			c.log.Warnf("eBay search failed: %v", err)
		}
		return nil, nil
	}

	out := make([]product.Product, 0, len(data.ItemSummaries))
	for _, item := range data.ItemSummaries {
		out = append(out, c.toProduct(item))
	}

	c.log.Debugf("eBay returned %d listings for %q", len(out), query)
	return out, nil
}

// browse performs one Browse API call
func (c *Client) browse(ctx context.Context, query string, limit int, out *browseResponse) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	params := url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.browseURL+"?"+params.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "create browse request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "browse request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.Wrap(errors.ErrRateLimitExceeded, "browse API returned 429")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &httpStatusError{code: resp.StatusCode, body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode browse response")
	}

	return nil
}

// toProduct maps one item summary to the canonical product shape,
// substituting defaults for anything the listing omits.
func (c *Client) toProduct(item itemSummary) product.Product {
	price := 0.0
	priceUnknown := true
	currency := "USD"
	if item.Price != nil {
		if v, err := strconv.ParseFloat(item.Price.Value, 64); err == nil {
			price = v
			priceUnknown = false
		}
		if item.Price.Currency != "" {
			currency = item.Price.Currency
		}
	}

	pageURL := item.ItemWebURL
	if pageURL == "" {
		pageURL = item.ItemAffiliateWebURL
	}

	imageURL := ""
	if item.Image != nil {
		imageURL = item.Image.ImageURL
	}
	if imageURL == "" && len(item.ThumbnailImages) > 0 {
		imageURL = item.ThumbnailImages[0].ImageURL
	}

	var rating *float64
	if item.BuyerReviews != nil && item.BuyerReviews.RatingAverage != nil {
		rating = item.BuyerReviews.RatingAverage
	}

	return product.Product{
		ID:           product.MakeID(idPrefix, item.ItemID),
		Title:        item.Title,
		Price:        price,
		PriceUnknown: priceUnknown,
		Currency:     currency,
		Retailer:     retailerName,
		URL:          pageURL,
		ImageURL:     imageURL,
		Rating:       rating,
	}
}
