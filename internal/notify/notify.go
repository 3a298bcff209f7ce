package notify

import "context"

// PriceDrop describes a product whose best price fell below the
// lowest previously recorded price.
type PriceDrop struct {
	Query       string
	Title       string
	Retailer    string
	Currency    string
	Price       float64
	PreviousMin float64
	URL         string
}

// Notifier delivers price-drop alerts to an external channel.
type Notifier interface {
	NotifyPriceDrop(ctx context.Context, drop PriceDrop) error
}
