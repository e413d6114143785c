package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/shopspring/decimal"
)

// biRow is the flat shape the dashboard's push dataset accepts.
type biRow struct {
	OrderID       string          `json:"orderId"`
	UserID        int64           `json:"userId"`
	SaleDate      string          `json:"saleDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	TotalItems    int             `json:"totalItems"`
	CustomerCity  string          `json:"customerCity"`
	PaymentMethod string          `json:"paymentMethod"`
}

// BISink pushes rows to a BI streaming dataset over HTTP.
type BISink struct {
	url    string
	client *http.Client
}

func NewBISink(url string, client *http.Client) *BISink {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &BISink{url: url, client: client}
}

func (s *BISink) Name() string { return "bi" }

func (s *BISink) Deliver(ctx context.Context, summary models.SalesSummary) error {
	rows := []biRow{{
		OrderID:       summary.OrderID,
		UserID:        summary.UserID,
		SaleDate:      summary.SaleDate.Format(time.RFC3339),
		TotalAmount:   summary.TotalAmount,
		Status:        string(summary.Status),
		TotalItems:    summary.TotalItems,
		CustomerCity:  summary.CustomerCity,
		PaymentMethod: summary.PaymentMethod,
	}}

	body, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bi push returned status %d", resp.StatusCode)
	}
	return nil
}
