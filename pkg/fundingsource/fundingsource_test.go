package fundingsource_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/finsuite/ledgergateway/pkg/fundingsource"
	"github.com/finsuite/ledgergateway/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func matchRequestBody(request fundingsource.MoveFundsRequest) interface{} {
	return mock.MatchedBy(func(body interface{}) bool {
		buf, ok := body.(*bytes.Buffer)
		if !ok {
			return false
		}

		var req fundingsource.MoveFundsRequest
		if err := json.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&req); err != nil {
			return false
		}

		return req.UserID == request.UserID &&
			req.Amount == request.Amount &&
			req.IdempotencyKey == request.IdempotencyKey
	})
}

func TestFundingSource_Debit(t *testing.T) {
	cfg := fundingsource.Config{
		BaseURL: "https://funds.test",
		Timeout: 30 * time.Second,
	}

	debitURL := "https://funds.test/funds/debit"
	headers := map[string]string{"Content-Type": "application/json"}

	request := fundingsource.MoveFundsRequest{
		UserID:         "user-1",
		Amount:         2500,
		Method:         "wallet",
		PurposeTag:     "bill-payment",
		IdempotencyKey: "debit-token-1",
	}

	t.Run("successful debit", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		source := fundingsource.NewFundingSource(cfg, mockClient)

		body := `{
			"code": "success",
			"message": "funds debited",
			"x_track_id": "",
			"result": {"source_transaction_id": 881}
		}`

		successResponse := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Post", context.Background(), debitURL, matchRequestBody(request),
			headers).Return(successResponse, nil)

		response, err := source.Debit(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, "success", response.Code)
		assert.Equal(t, int64(881), response.Result.SourceTransactionID)
		mockClient.AssertExpectations(t)
	})

	t.Run("unknown user maps to ErrUserNotFound", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		source := fundingsource.NewFundingSource(cfg, mockClient)

		notFound := &http.Response{
			StatusCode: 404,
			Body:       io.NopCloser(strings.NewReader(`{"code":"USER_NOT_FOUND"}`)),
		}

		mockClient.On("Post", context.Background(), debitURL, mock.Anything, headers).
			Return(notFound, nil)

		_, err := source.Debit(context.Background(), request)

		assert.ErrorIs(t, err, fundingsource.ErrUserNotFound)
	})

	t.Run("conflict maps to ErrInsufficientBalance", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		source := fundingsource.NewFundingSource(cfg, mockClient)

		conflict := &http.Response{
			StatusCode: 409,
			Body:       io.NopCloser(strings.NewReader(`{"code":"INSUFFICIENT_BALANCE"}`)),
		}

		mockClient.On("Post", context.Background(), debitURL, mock.Anything, headers).
			Return(conflict, nil)

		_, err := source.Debit(context.Background(), request)

		assert.ErrorIs(t, err, fundingsource.ErrInsufficientBalance)
	})

	t.Run("server error maps to ErrServerError", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		source := fundingsource.NewFundingSource(cfg, mockClient)

		serverError := &http.Response{
			StatusCode: 500,
			Body:       io.NopCloser(strings.NewReader(``)),
		}

		mockClient.On("Post", context.Background(), debitURL, mock.Anything, headers).
			Return(serverError, nil)

		_, err := source.Debit(context.Background(), request)

		assert.ErrorIs(t, err, fundingsource.ErrServerError)
	})

	t.Run("deadline exceeded maps to ErrTimeout", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		source := fundingsource.NewFundingSource(cfg, mockClient)

		mockClient.On("Post", context.Background(), debitURL, mock.Anything, headers).
			Return((*http.Response)(nil), context.DeadlineExceeded)

		_, err := source.Debit(context.Background(), request)

		assert.ErrorIs(t, err, fundingsource.ErrTimeout)
	})
}

func TestFundingSource_Credit(t *testing.T) {
	cfg := fundingsource.Config{
		BaseURL: "https://funds.test",
		Timeout: 30 * time.Second,
	}

	creditURL := "https://funds.test/funds/credit"
	headers := map[string]string{"Content-Type": "application/json"}

	request := fundingsource.MoveFundsRequest{
		UserID:         "user-1",
		Amount:         2500,
		Method:         "wallet",
		PurposeTag:     "refund",
		IdempotencyKey: "refund-15",
	}

	t.Run("successful credit", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		source := fundingsource.NewFundingSource(cfg, mockClient)

		successResponse := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(`{"code":"success","result":{}}`)),
		}

		mockClient.On("Post", context.Background(), creditURL, matchRequestBody(request),
			headers).Return(successResponse, nil)

		response, err := source.Credit(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, "success", response.Code)
		mockClient.AssertExpectations(t)
	})
}
