package backend

import (
	"context"
	"net/http"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// Balance returns the wallet summary of the signed-in user.
func (c *Client) Balance(ctx context.Context) (models.Wallet, error) {
	var w models.Wallet
	if err := c.do(ctx, http.MethodGet, balancePath, nil, nil, &w); err != nil {
		return models.Wallet{}, err
	}
	return w, nil
}

// Transactions returns up to limit most recent wallet transactions.
func (c *Client) Transactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	var data struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, transactionsPath, limitQuery(limit), nil, &data); err != nil {
		return nil, err
	}
	return data.Transactions, nil
}

// Redemptions returns up to limit most recent redemption requests.
func (c *Client) Redemptions(ctx context.Context, limit int) ([]models.Redemption, error) {
	var data struct {
		Redemptions []models.Redemption `json:"redemptions"`
	}
	if err := c.do(ctx, http.MethodGet, redemptionsPath, limitQuery(limit), nil, &data); err != nil {
		return nil, err
	}
	return data.Redemptions, nil
}

// Redeem files a withdrawal of points to a UPI id.
func (c *Client) Redeem(ctx context.Context, upiID string, points int) error {
	body := map[string]any{"upiId": upiID, "points": points}
	return c.do(ctx, http.MethodPost, redeemPath, nil, body, nil)
}

// CreateOrder starts a points top-up and returns the order id.
func (c *Client) CreateOrder(ctx context.Context, points int) (string, error) {
	var data struct {
		OrderID string `json:"orderId"`
	}
	body := map[string]any{"points": points}
	if err := c.do(ctx, http.MethodPost, createOrderPath, nil, body, &data); err != nil {
		return "", err
	}
	if data.OrderID == "" {
		return "", ErrEmptyData
	}
	return data.OrderID, nil
}

// InitiatePayment exchanges an order id for the payment gateway URL.
func (c *Client) InitiatePayment(ctx context.Context, orderID string) (string, error) {
	var data struct {
		RedirectURL string `json:"redirectUrl"`
	}
	body := map[string]string{"orderId": orderID}
	if err := c.do(ctx, http.MethodPost, initiatePaymentPath, nil, body, &data); err != nil {
		return "", err
	}
	if data.RedirectURL == "" {
		return "", ErrEmptyData
	}
	return data.RedirectURL, nil
}
