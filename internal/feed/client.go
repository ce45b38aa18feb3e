package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"product-transactions/internal/client"
	"product-transactions/internal/logger"
	"product-transactions/internal/model"

	"go.opentelemetry.io/otel"
)

var FeedClientTracer = otel.Tracer("FeedClient")

const userAgent = "product-transactions-seeder"

// Client downloads the product transaction feed.
type Client struct {
	http *client.HTTPClient
	url  string
}

func NewClient(url string, timeout time.Duration) *Client {
	httpClient := client.NewHTTPClient("", timeout)
	httpClient.SetDefaultHeader("User-Agent", userAgent)
	return &Client{
		http: httpClient,
		url:  url,
	}
}

// Fetch downloads and normalizes the whole feed. Any malformed item fails the fetch.
func (c *Client) Fetch(ctx context.Context) ([]model.Product, error) {
	ctx, span := FeedClientTracer.Start(ctx, "FeedClient.Fetch")
	defer span.End()

	var items []Item
	if _, err := c.http.Get(ctx, c.url, &items); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	products := make([]model.Product, 0, len(items))
	for idx, item := range items {
		p, err := item.Product()
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("feed item %d: %w", idx, err)
		}
		products = append(products, p)
	}

	logger.Info(ctx, "Feed fetched", slog.String("url", c.url), slog.Int("items", len(products)))
	return products, nil
}
