package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystackClient_VerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/transaction/verify/ref_ok":
			w.Write([]byte(`{"status":true,"message":"Verification successful","data":{
				"status":"success","reference":"ref_ok","amount":150000,"currency":"ngn",
				"paid_at":"2024-05-01T12:00:00.000Z",
				"metadata":{"kind":"membership","principal":"a@b.com","plan":"gold","months":1}}}`))
		case "/transaction/verify/ref_failed":
			w.Write([]byte(`{"status":true,"message":"Verification successful","data":{
				"status":"failed","reference":"ref_failed","amount":150000,"currency":"NGN","paid_at":""}}`))
		case "/transaction/verify/ref_missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
		case "/transaction/verify/ref_rejected":
			w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
		case "/transaction/verify/ref_garbage":
			w.Write([]byte(`<html>`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := &PaystackClient{
		SecretKey:  "sk_test_key",
		APIBaseURL: srv.URL,
		HTTPClient: srv.Client(),
	}
	ctx := context.Background()

	result, err := client.VerifyTransaction(ctx, "ref_ok")
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, "ref_ok", result.Reference)
	assert.Equal(t, int64(150000), result.Amount)
	assert.Equal(t, "NGN", result.Currency)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), result.PaidAt.UTC())
	assert.NotEmpty(t, result.Metadata)

	result, err = client.VerifyTransaction(ctx, "ref_failed")
	require.NoError(t, err)
	assert.False(t, result.Succeeded())

	_, err = client.VerifyTransaction(ctx, "ref_missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.VerifyTransaction(ctx, "ref_rejected")
	assert.ErrorIs(t, err, ErrVerificationFailed)

	_, err = client.VerifyTransaction(ctx, "ref_garbage")
	assert.ErrorIs(t, err, ErrVerificationFailed)

	_, err = client.VerifyTransaction(ctx, "ref_boom")
	assert.ErrorIs(t, err, ErrVerificationFailed)

	_, err = client.VerifyTransaction(ctx, "")
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestPaystackClient_VerifyTransaction_Unreachable(t *testing.T) {
	client := &PaystackClient{
		SecretKey:  "sk_test_key",
		APIBaseURL: "http://127.0.0.1:1",
		HTTPClient: &http.Client{Timeout: time.Second},
	}

	_, err := client.VerifyTransaction(context.Background(), "ref_any")
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestPaystackClient_RequiresSecretKey(t *testing.T) {
	client := &PaystackClient{APIBaseURL: "http://example.invalid", HTTPClient: http.DefaultClient}
	_, err := client.VerifyTransaction(context.Background(), "ref_any")
	assert.ErrorIs(t, err, ErrVerificationFailed)
}
