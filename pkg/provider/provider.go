package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/finsuite/ledgergateway/pkg/httpclient"
)

// Adapter places an order with the downstream provider for one payment
// domain (biller aggregator, mutual-fund platform, bank payout rail).
type Adapter interface {
	PlaceOrder(ctx context.Context, request OrderRequest) (OrderResponse, error)
}

type Config struct {
	Timeout    time.Duration     `mapstructure:"timeout"`
	MaxRetries int               `mapstructure:"max_retries"`
	Endpoints  map[string]string `mapstructure:"endpoints"`
}

type OrderRequest struct {
	Domain         string `json:"domain"`
	UserID         string `json:"user_id"`
	Amount         int64  `json:"amount"`
	Target         string `json:"target"`
	IdempotencyKey string `json:"idempotency_key"`
}

type OrderResponse struct {
	Status      string `json:"status"`
	ProviderRef string `json:"provider_ref"`
	Message     string `json:"message"`
}

const StatusAccepted = "ACCEPTED"

type HTTPAdapter struct {
	cfg    Config
	client httpclient.HTTPClient
}

func NewHTTPAdapter(cfg Config, client httpclient.HTTPClient) Adapter {
	return &HTTPAdapter{cfg: cfg, client: client}
}

func (a *HTTPAdapter) PlaceOrder(ctx context.Context, request OrderRequest) (OrderResponse, error) {
	url, ok := a.cfg.Endpoints[request.Domain]
	if !ok {
		return OrderResponse{}, fmt.Errorf("no provider endpoint for domain %q", request.Domain)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return OrderResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}

	resp, err := a.client.Post(ctx, url, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return OrderResponse{}, ErrTimeout
		}

		return OrderResponse{}, ErrNetworkError
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case 400, 409, 422:
			return OrderResponse{}, ErrOrderRejected
		default:
			return OrderResponse{}, ErrServerError
		}
	}

	var res OrderResponse
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return OrderResponse{}, ErrServerError
	}

	return res, nil
}
