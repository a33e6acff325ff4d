package fundingsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/finsuite/ledgergateway/pkg/httpclient"
)

const (
	DebitEndpoint  = "/funds/debit"
	CreditEndpoint = "/funds/credit"
)

// FundingSource fronts the account service that actually holds user money
// (wallet, UPI handle or linked bank account, selected by request.Method).
type FundingSource interface {
	Debit(ctx context.Context, request MoveFundsRequest) (Response, error)
	Credit(ctx context.Context, request MoveFundsRequest) (Response, error)
}

type fundingSource struct {
	client httpclient.HTTPClient
	config Config
}

func NewFundingSource(cfg Config, client httpclient.HTTPClient) FundingSource {
	return &fundingSource{config: cfg, client: client}
}

func (f *fundingSource) Debit(ctx context.Context, request MoveFundsRequest) (Response, error) {
	return f.post(ctx, DebitEndpoint, request)
}

func (f *fundingSource) Credit(ctx context.Context, request MoveFundsRequest) (Response, error) {
	return f.post(ctx, CreditEndpoint, request)
}

func (f *fundingSource) post(ctx context.Context, endpoint string, request MoveFundsRequest) (Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return Response{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := f.client.Post(ctx, f.config.BaseURL+endpoint, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Response{}, ErrTimeout
		}

		return Response{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK {
		var response Response
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return Response{}, fmt.Errorf("decoding error: %w", err)
		}

		return response, nil
	}

	return Response{}, MapStatusToError(resp.StatusCode)
}
