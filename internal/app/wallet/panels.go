package wallet

import (
	"context"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/sourcegraph/conc"
)

// API is the backend surface the wallet page needs. *backend.Client
// satisfies it.
type API interface {
	Balance(ctx context.Context) (models.Wallet, error)
	Transactions(ctx context.Context, limit int) ([]models.Transaction, error)
	Redemptions(ctx context.Context, limit int) ([]models.Redemption, error)
	Redeem(ctx context.Context, upiID string, points int) error
	CreateOrder(ctx context.Context, points int) (string, error)
	InitiatePayment(ctx context.Context, orderID string) (string, error)
}

// Panels is the wallet page's data. Each panel keeps its own error so one
// failing call never blanks the others.
type Panels struct {
	Wallet       models.Wallet
	WalletErr    error
	Transactions []models.Transaction
	TxErr        error
	Redemptions  []models.Redemption
	RedeemErr    error
}

// Load fetches balance, transactions and redemptions concurrently.
func Load(ctx context.Context, api API) Panels {
	var p Panels
	var wg conc.WaitGroup
	wg.Go(func() { p.Wallet, p.WalletErr = api.Balance(ctx) })
	wg.Go(func() { p.Transactions, p.TxErr = api.Transactions(ctx, TransactionWindow) })
	wg.Go(func() { p.Redemptions, p.RedeemErr = api.Redemptions(ctx, TransactionWindow) })
	wg.Wait()
	return p
}

// StartTopUp creates an order for points and returns the payment gateway
// URL the visitor must be sent to.
func StartTopUp(ctx context.Context, api API, points int) (string, error) {
	if err := ValidateAdd(points); err != nil {
		return "", err
	}
	orderID, err := api.CreateOrder(ctx, points)
	if err != nil {
		return "", err
	}
	return api.InitiatePayment(ctx, orderID)
}

// Withdraw validates and files a redemption request.
func Withdraw(ctx context.Context, api API, upiID string, points, balance int) error {
	if err := ValidateWithdraw(upiID, points, balance); err != nil {
		return err
	}
	return api.Redeem(ctx, upiID, points)
}

// FilterTransactions keeps transactions of type typ ("" or "all" keeps all).
func FilterTransactions(txs []models.Transaction, typ string) []models.Transaction {
	if typ == "" || typ == "all" {
		return txs
	}
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

// FilterRedemptions keeps redemptions in status ("" or "all" keeps all).
func FilterRedemptions(rs []models.Redemption, status string) []models.Redemption {
	if status == "" || status == "all" {
		return rs
	}
	out := make([]models.Redemption, 0, len(rs))
	for _, r := range rs {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
