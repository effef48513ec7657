package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
)

type paystackClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

func NewPaystackClient(baseURL, secretKey string, timeout time.Duration) Gateway {
	return &paystackClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		secretKey:  secretKey,
	}
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status string `json:"status"`
}

func (c *paystackClient) Initialize(ctx context.Context, reqData InitializeRequest) (*InitializeResult, error) {
	payload := map[string]any{
		"email":        reqData.Email,
		"amount":       reqData.AmountMinor,
		"reference":    reqData.Reference,
		"callback_url": reqData.CallbackURL,
		"metadata": map[string]uuid.UUID{
			"order_id": reqData.OrderID,
			"user_id":  reqData.UserID,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	raw, env, err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &domain.GatewayError{Message: "malformed initialize response", Err: err}
	}

	return &InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
		Raw:              raw,
	}, nil
}

func (c *paystackClient) Verify(ctx context.Context, gatewayReference string) (*VerifyResult, error) {
	raw, env, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+gatewayReference, nil)
	if err != nil {
		return nil, err
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &domain.GatewayError{Message: "malformed verify response", Err: err}
	}

	return &VerifyResult{Status: data.Status, Raw: raw}, nil
}

// do performs one gateway call and normalizes every failure mode
// (transport, timeout, non-200, gateway-reported failure) to GatewayError.
func (c *paystackClient) do(ctx context.Context, method, path string, body io.Reader) (string, *paystackEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, &domain.GatewayError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	rawBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, &domain.GatewayError{Message: "reading response", Err: err}
	}
	raw := string(rawBytes)

	if resp.StatusCode != http.StatusOK {
		return "", nil, &domain.GatewayError{Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, raw)}
	}

	var env paystackEnvelope
	if err := json.Unmarshal(rawBytes, &env); err != nil {
		return "", nil, &domain.GatewayError{Message: "malformed response body", Err: err}
	}
	if !env.Status {
		return "", nil, &domain.GatewayError{Message: env.Message}
	}
	return raw, &env, nil
}
