// Package midtrans talks to the Midtrans Snap and Core APIs.
package midtrans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	SandboxSnapURL    = "https://app.sandbox.midtrans.com"
	ProductionSnapURL = "https://app.midtrans.com"
	SandboxAPIURL     = "https://api.sandbox.midtrans.com"
	ProductionAPIURL  = "https://api.midtrans.com"

	routeSnapTransactions = "/snap/v1/transactions"
	routeStatus           = "/v2/%s/status"
)

type Config struct {
	ServerKey    string
	IsProduction bool
	Timeout      time.Duration

	// SnapURL and APIURL override the environment defaults.
	SnapURL string
	APIURL  string

	// SkipStatusCheck trusts the signed payload instead of refetching the status.
	SkipStatusCheck bool
}

// Client implements gateway.Client against Midtrans.
type Client struct {
	serverKey       string
	snapURL         string
	apiURL          string
	skipStatusCheck bool
	httpClient      *http.Client
}

var _ gateway.Client = (*Client)(nil)

func New(cfg Config) *Client {
	snapURL, apiURL := SandboxSnapURL, SandboxAPIURL
	if cfg.IsProduction {
		snapURL, apiURL = ProductionSnapURL, ProductionAPIURL
	}
	if cfg.SnapURL != "" {
		snapURL = cfg.SnapURL
	}
	if cfg.APIURL != "" {
		apiURL = cfg.APIURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		serverKey:       cfg.ServerKey,
		snapURL:         snapURL,
		apiURL:          apiURL,
		skipStatusCheck: cfg.SkipStatusCheck,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

type snapRequest struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
	CreditCard         creditCard         `json:"credit_card"`
	CustomerDetails    customerDetails    `json:"customer_details"`
	Metadata           map[string]string  `json:"metadata,omitempty"`
}

type transactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type creditCard struct {
	Secure bool `json:"secure"`
}

type customerDetails struct {
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

type errorResponse struct {
	ErrorMessages []string `json:"error_messages"`
}

// CreateCharge opens a Snap checkout. Snap answers 201 with the token and redirect URL.
func (c *Client) CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	grossAmount, err := grossAmountOf(req.Amount)
	if err != nil {
		return nil, &gateway.Error{Op: "charge", Err: err}
	}
	payload := snapRequest{
		TransactionDetails: transactionDetails{OrderID: req.OrderID, GrossAmount: grossAmount},
		CreditCard:         creditCard{Secure: true},
		CustomerDetails:    customerDetails{FirstName: req.UserName, Email: req.UserEmail},
		Metadata:           map[string]string{"user_id": req.UserID},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &gateway.Error{Op: "charge", Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	var result gateway.ChargeResult
	if err := c.do(ctx, "charge", http.MethodPost, c.snapURL+routeSnapTransactions, body, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, &gateway.Error{Op: "charge", StatusCode: http.StatusCreated, Messages: []string{"response has no token"}}
	}
	return &result, nil
}

var maxGrossAmount = decimal.NewFromInt(math.MaxInt64)

// grossAmountOf converts the amount to the whole number Snap expects.
func grossAmountOf(amount models.Money) (int64, error) {
	if !amount.IsInteger() {
		return 0, fmt.Errorf("gross amount %s is not a whole number", amount)
	}
	if amount.GreaterThan(maxGrossAmount) || amount.IsNegative() {
		return 0, fmt.Errorf("gross amount %s is out of range", amount)
	}
	return amount.IntPart(), nil
}

type statusResponse struct {
	StatusCode        string `json:"status_code"`
	StatusMessage     string `json:"status_message"`
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	GrossAmount       string `json:"gross_amount"`
}

// GetStatus fetches the order status from the Core API. The API reports an
// unknown order with HTTP 200 and a body status_code of "404".
func (c *Client) GetStatus(ctx context.Context, orderID string) (*gateway.Status, error) {
	endpoint := c.apiURL + fmt.Sprintf(routeStatus, url.PathEscape(orderID))

	var resp statusResponse
	if err := c.do(ctx, "status", http.MethodGet, endpoint, nil, http.StatusOK, &resp); err != nil {
		var gwErr *gateway.Error
		if errors.As(err, &gwErr) && gwErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("order %s: %w", orderID, gateway.ErrTransactionNotFound)
		}
		return nil, err
	}
	if resp.StatusCode == "404" {
		return nil, fmt.Errorf("order %s: %w", orderID, gateway.ErrTransactionNotFound)
	}

	return statusFromResponse(&resp)
}

func statusFromResponse(resp *statusResponse) (*gateway.Status, error) {
	status := &gateway.Status{
		OrderID:           resp.OrderID,
		TransactionID:     resp.TransactionID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		StatusCode:        resp.StatusCode,
		PaymentType:       resp.PaymentType,
	}
	if resp.GrossAmount != "" {
		amount, err := parseGrossAmount(resp.GrossAmount)
		if err != nil {
			return nil, &gateway.Error{Op: "status", Err: err}
		}
		status.GrossAmount = amount
	}
	return status, nil
}

//nolint:nonamedreturns
func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte, wantStatus int, out any) (err error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &gateway.Error{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.SetBasicAuth(c.serverKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &gateway.Error{Op: op, Err: fmt.Errorf("do request: %w", err)}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &gateway.Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != wantStatus {
		var errResp errorResponse
		_ = json.Unmarshal(respBody, &errResp)
		return &gateway.Error{Op: op, StatusCode: resp.StatusCode, Messages: errResp.ErrorMessages}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &gateway.Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("parse response: %w", err)}
	}
	return nil
}
