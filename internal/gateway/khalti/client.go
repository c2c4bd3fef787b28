package khalti

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/medibook/clinic-scheduler/internal/domain/payment"
	"github.com/medibook/clinic-scheduler/internal/httperr"
)

// Client speaks the Khalti ePayment API: JSON over HTTPS POST with a
// secret-key header. One attempt per call; the caller owns any retry policy.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func New(baseURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

type initiateRequest struct {
	ReturnURL         string `json:"return_url"`
	WebsiteURL        string `json:"website_url"`
	Amount            int64  `json:"amount"`
	PurchaseOrderID   string `json:"purchase_order_id"`
	PurchaseOrderName string `json:"purchase_order_name"`
}

type initiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
}

type lookupRequest struct {
	Pidx string `json:"pidx"`
}

type lookupResponse struct {
	Pidx          string `json:"pidx"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

func (c *Client) Initiate(ctx context.Context, req domain.GatewayInitiation) (*domain.GatewayReceipt, error) {
	var resp initiateResponse
	err := c.post(ctx, "/epayment/initiate/", initiateRequest{
		ReturnURL:         req.ReturnURL,
		WebsiteURL:        req.WebsiteURL,
		Amount:            req.AmountPaisa,
		PurchaseOrderID:   req.PurchaseOrderID,
		PurchaseOrderName: req.PurchaseOrderName,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Pidx == "" || resp.PaymentURL == "" {
		return nil, httperr.ErrExternal("gateway_malformed_response", "Payment gateway returned an incomplete response.")
	}

	return &domain.GatewayReceipt{
		Pidx:       resp.Pidx,
		PaymentURL: resp.PaymentURL,
	}, nil
}

func (c *Client) Lookup(ctx context.Context, pidx string) (*domain.GatewayLookup, error) {
	var resp lookupResponse
	if err := c.post(ctx, "/epayment/lookup/", lookupRequest{Pidx: pidx}, &resp); err != nil {
		return nil, err
	}

	if resp.Status == "" {
		return nil, httperr.ErrExternal("gateway_malformed_response", "Payment gateway returned an incomplete response.")
	}

	return &domain.GatewayLookup{
		Pidx:          resp.Pidx,
		Status:        resp.Status,
		TransactionID: resp.TransactionID,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return httperr.ErrExternal("gateway_timeout", "Payment gateway timed out.")
		}
		return httperr.ErrExternal("gateway_unreachable", "Payment gateway could not be reached.")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return httperr.ErrExternal("gateway_read_failed", "Payment gateway response could not be read.")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httperr.ErrExternal(
			"gateway_error",
			fmt.Sprintf("Payment gateway rejected the request (%d): %s", resp.StatusCode, string(raw)),
		)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return httperr.ErrExternal("gateway_malformed_response", "Payment gateway returned unparseable data.")
	}

	return nil
}

// Compile-time check
var _ domain.Gateway = (*Client)(nil)
