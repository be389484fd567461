package shipstation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/commerce-platform/inventory-service/internal/application"
	"github.com/commerce-platform/inventory-service/pkg/logging"
	"github.com/commerce-platform/inventory-service/pkg/resilience"
)

// Config holds ShipStation API configuration
type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	PageSize  int
	Timeout   time.Duration
}

// DefaultConfig returns default client configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  "https://ssapi.shipstation.com",
		PageSize: 500,
		Timeout:  30 * time.Second,
	}
}

// Client pulls warehouse stock levels from the ShipStation API. It
// implements the application WarehouseFeed port.
type Client struct {
	config *Config
	http   *http.Client
	retry  *resilience.RetryConfig
	logger *logging.Logger
}

// NewClient creates a new ShipStation client
func NewClient(config *Config, logger *logging.Logger) *Client {
	retry := resilience.DefaultRetryConfig()
	retry.RetryableErrors = func(err error) bool {
		var re *requestError
		if errors.As(err, &re) {
			return re.status >= 500 || re.status == http.StatusTooManyRequests
		}
		// network-level failures are worth retrying
		return true
	}

	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		retry:  retry,
		logger: logger.WithComponent("shipstation"),
	}
}

// Provider names this feed in import results and events
func (c *Client) Provider() string {
	return "shipstation"
}

type productPage struct {
	Products []struct {
		SKU               string `json:"sku"`
		WarehouseLocation string `json:"warehouseLocation"`
		OnHand            int    `json:"onHand"`
	} `json:"products"`
	Pages int `json:"pages"`
	Page  int `json:"page"`
}

// FetchStock pulls the stock feed, paging until exhausted. A non-empty
// sku narrows the pull to one product.
func (c *Client) FetchStock(ctx context.Context, sku string) ([]application.StockFeedRow, error) {
	var rows []application.StockFeedRow

	for page := 1; ; page++ {
		result, err := c.fetchPage(ctx, sku, page)
		if err != nil {
			return nil, err
		}

		for _, p := range result.Products {
			rows = append(rows, application.StockFeedRow{
				SKU:       p.SKU,
				Warehouse: p.WarehouseLocation,
				OnHand:    p.OnHand,
			})
		}

		if result.Page >= result.Pages || len(result.Products) == 0 {
			break
		}
	}

	c.logger.Info("Fetched warehouse stock feed", "sku", sku, "rows", len(rows))
	return rows, nil
}

func (c *Client) fetchPage(ctx context.Context, sku string, page int) (*productPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(c.config.PageSize))
	if sku != "" {
		query.Set("sku", sku)
	}

	endpoint := c.config.BaseURL + "/products?" + query.Encode()

	var result productPage
	err := resilience.Retry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.config.APIKey, c.config.APISecret)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &requestError{status: resp.StatusCode, url: endpoint}
		}

		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch stock page %d: %w", page, err)
	}
	return &result, nil
}

type requestError struct {
	status int
	url    string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("shipstation request failed with status %d: %s", e.status, e.url)
}
