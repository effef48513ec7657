package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystackClient_Initialize(t *testing.T) {
	orderID := uuid.New()
	userID := uuid.New()

	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc123","access_code":"abc123","reference":"T123456"}}`))
	}))
	defer srv.Close()

	client := NewPaystackClient(srv.URL, "sk_test_xyz", 5*time.Second)
	result, err := client.Initialize(context.Background(), InitializeRequest{
		Email:       "reader@example.com",
		AmountMinor: 4250,
		Reference:   "PAY_ABCDEF1234",
		CallbackURL: "http://localhost:8080/payments/callback",
		OrderID:     orderID,
		UserID:      userID,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)
	assert.Equal(t, "abc123", result.AccessCode)
	assert.Equal(t, "T123456", result.Reference)
	assert.Contains(t, result.Raw, "authorization_url")

	assert.Equal(t, "Bearer sk_test_xyz", gotAuth)
	assert.Equal(t, "reader@example.com", gotBody["email"])
	assert.Equal(t, float64(4250), gotBody["amount"])
	assert.Equal(t, "PAY_ABCDEF1234", gotBody["reference"])
	meta := gotBody["metadata"].(map[string]any)
	assert.Equal(t, orderID.String(), meta["order_id"])
	assert.Equal(t, userID.String(), meta["user_id"])
}

func TestPaystackClient_Initialize_GatewayReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	client := NewPaystackClient(srv.URL, "sk_test_bad", 5*time.Second)
	_, err := client.Initialize(context.Background(), InitializeRequest{Email: "reader@example.com"})

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "Invalid key", gwErr.Message)
}

func TestPaystackClient_Initialize_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewPaystackClient(srv.URL, "sk_test_xyz", 5*time.Second)
	_, err := client.Initialize(context.Background(), InitializeRequest{Email: "reader@example.com"})

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Contains(t, gwErr.Message, "HTTP 502")
	assert.Contains(t, gwErr.Message, "upstream exploded")
}

func TestPaystackClient_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transaction/verify/T123456", r.URL.Path)
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","amount":4250}}`))
	}))
	defer srv.Close()

	client := NewPaystackClient(srv.URL, "sk_test_xyz", 5*time.Second)
	result, err := client.Verify(context.Background(), "T123456")

	require.NoError(t, err)
	assert.Equal(t, TransactionSuccess, result.Status)
	assert.Contains(t, result.Raw, `"amount":4250`)
}

func TestPaystackClient_Verify_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"abandoned"}}`))
	}))
	defer srv.Close()

	client := NewPaystackClient(srv.URL, "sk_test_xyz", 5*time.Second)
	result, err := client.Verify(context.Background(), "T999")

	require.NoError(t, err)
	assert.Equal(t, "abandoned", result.Status)
}

func TestPaystackClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewPaystackClient(srv.URL, "sk_test_xyz", 20*time.Millisecond)
	_, err := client.Verify(context.Background(), "T123456")

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
}
