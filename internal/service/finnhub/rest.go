package finnhub

import (
	"context"
	"fmt"
	"time"

	"AlphaPulse/internal/domain/models"
	pkghttp "AlphaPulse/pkg/http"
)

// RestClient fetches spot quotes from the Finnhub REST API.
type RestClient struct {
	apiKey  string
	baseURL string
	client  *pkghttp.Client
}

// NewRestClient creates a REST quote client.
func NewRestClient(apiKey, baseURL string, client *pkghttp.Client) *RestClient {
	if baseURL == "" {
		baseURL = "https://finnhub.io/api/v1"
	}
	return &RestClient{apiKey: apiKey, baseURL: baseURL, client: client}
}

type fhQuote struct {
	C  float64 `json:"c"`  // current price
	D  float64 `json:"d"`  // change
	DP float64 `json:"dp"` // change percent
	H  float64 `json:"h"`  // day high
	L  float64 `json:"l"`  // day low
	O  float64 `json:"o"`  // day open
	T  int64   `json:"t"`
}

// Quote fetches the latest quote for a symbol.
func (c *RestClient) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	var q fhQuote
	err := c.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/quote",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"token":  {c.apiKey},
		},
	}, &q)
	if err != nil {
		return models.Quote{}, fmt.Errorf("finnhub quote %s: %w", symbol, err)
	}
	// Finnhub returns zeroes for unknown symbols.
	if q.C == 0 {
		return models.Quote{}, fmt.Errorf("finnhub quote %s: no price", symbol)
	}
	return models.Quote{
		Symbol:        symbol,
		Price:         q.C,
		Change:        q.D,
		ChangePercent: q.DP,
		High:          q.H,
		Low:           q.L,
		Open:          q.O,
		FetchedAt:     time.Now(),
	}, nil
}
