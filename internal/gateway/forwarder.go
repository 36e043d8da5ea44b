package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// supportedCardPrefix is the coarse routing rule: only this card range is
// forwarded to the core ledger.
const supportedCardPrefix = "4"

// MessageCardRangeNotSupported is returned without ever reaching the core.
const MessageCardRangeNotSupported = "Card range not supported"

// TransactionRequest mirrors the core's inbound request shape.
type TransactionRequest struct {
	CardNumber string          `json:"cardNumber" validate:"required"`
	PIN        string          `json:"pin" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type" validate:"required"`
}

// TransactionResponse mirrors the core's outcome shape and is relayed to
// the client unchanged.
type TransactionResponse struct {
	Success       bool             `json:"success"`
	Message       string           `json:"message"`
	TransactionID string           `json:"transactionId,omitempty"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
}

// Forwarder routes eligible requests to the core ledger service and
// substitutes a synthetic failure response when the core is unreachable.
type Forwarder struct {
	coreBaseURL string
	client      *http.Client
}

// NewForwarder creates a forwarder targeting the core at coreBaseURL.
func NewForwarder(coreBaseURL string) *Forwarder {
	return &Forwarder{
		coreBaseURL: strings.TrimRight(coreBaseURL, "/"),
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Route applies the card-range rule and forwards the request to the
// core's /process endpoint. Transport failures never surface as errors;
// they become a normal failure response.
func (f *Forwarder) Route(ctx context.Context, req TransactionRequest) TransactionResponse {
	if !strings.HasPrefix(req.CardNumber, supportedCardPrefix) {
		return TransactionResponse{Success: false, Message: MessageCardRangeNotSupported}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return unreachable(err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.coreBaseURL+"/process", bytes.NewReader(body))
	if err != nil {
		return unreachable(err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return unreachable(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unreachable(fmt.Sprintf("status %d", resp.StatusCode))
	}

	var out TransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return unreachable(err.Error())
	}
	return out
}

func unreachable(detail string) TransactionResponse {
	return TransactionResponse{Success: false, Message: "System 2 unreachable: " + detail}
}
