package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/shopspring/decimal"
)

func TestRupeesForPoints(t *testing.T) {
	for p := MinAddPoints; p <= MaxAddPoints; p++ {
		want := int64((p + PointsPerRupee - 1) / PointsPerRupee)
		got := RupeesForPoints(p)
		if !got.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("RupeesForPoints(%d) = %s, want %d", p, got, want)
		}
	}
	if !RupeesForPoints(0).IsZero() {
		t.Error("RupeesForPoints(0) != 0")
	}
}

func TestFormatRupees(t *testing.T) {
	tests := map[int64]string{
		0:      "₹0",
		100:    "₹100",
		1000:   "₹1,000",
		20000:  "₹20,000",
		123456: "₹123,456",
	}
	for in, want := range tests {
		if got := FormatRupees(decimal.NewFromInt(in)); got != want {
			t.Errorf("FormatRupees(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateAdd(t *testing.T) {
	tests := []struct {
		points int
		ok     bool
	}{
		{499, false}, {500, true}, {100000, true}, {100001, false}, {0, false},
	}
	for _, tt := range tests {
		if err := ValidateAdd(tt.points); (err == nil) != tt.ok {
			t.Errorf("ValidateAdd(%d) = %v", tt.points, err)
		}
	}
}

func TestValidateWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		upi     string
		points  int
		balance int
		want    error
	}{
		{"ok", "asha.k@okaxis", 500, 800, nil},
		{"all balance", "asha-k_1@ybl", 800, 800, nil},
		{"below minimum", "asha@ybl", 499, 800, ErrWithdrawMin},
		{"above balance", "asha@ybl", 900, 800, ErrOverBalance},
		{"bad upi no at", "ashaybl", 600, 800, ErrUPIFormat},
		{"bad upi digits in handle", "asha@ybl1", 600, 800, ErrUPIFormat},
		{"bad upi short name", "a@ybl", 600, 800, ErrUPIFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWithdraw(tt.upi, tt.points, tt.balance)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateWithdraw = %v, want %v", err, tt.want)
			}
		})
	}
}

type fakeAPI struct {
	balanceErr error
	orders     []int
	redeemed   int
}

func (f *fakeAPI) Balance(ctx context.Context) (models.Wallet, error) {
	return models.Wallet{CurrentBalance: 750}, f.balanceErr
}

func (f *fakeAPI) Transactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	return []models.Transaction{{Type: models.TxCredit}, {Type: models.TxDebit}, {Type: models.TxCredit}}, nil
}

func (f *fakeAPI) Redemptions(ctx context.Context, limit int) ([]models.Redemption, error) {
	return []models.Redemption{{Status: models.RedemptionPending}}, nil
}

func (f *fakeAPI) Redeem(ctx context.Context, upi string, points int) error {
	f.redeemed = points
	return nil
}

func (f *fakeAPI) CreateOrder(ctx context.Context, points int) (string, error) {
	f.orders = append(f.orders, points)
	return "ord_1", nil
}

func (f *fakeAPI) InitiatePayment(ctx context.Context, orderID string) (string, error) {
	return "https://pay.example/" + orderID, nil
}

func TestLoad_PanelErrorsAreIndependent(t *testing.T) {
	api := &fakeAPI{balanceErr: errors.New("down")}
	p := Load(context.Background(), api)
	if p.WalletErr == nil {
		t.Error("WalletErr = nil, want error")
	}
	if p.TxErr != nil || len(p.Transactions) != 3 {
		t.Errorf("transactions = %v, %v", p.Transactions, p.TxErr)
	}
	if p.RedeemErr != nil || len(p.Redemptions) != 1 {
		t.Errorf("redemptions = %v, %v", p.Redemptions, p.RedeemErr)
	}
}

func TestStartTopUp(t *testing.T) {
	api := &fakeAPI{}
	if _, err := StartTopUp(context.Background(), api, 100); !errors.Is(err, ErrAddRange) {
		t.Fatalf("StartTopUp(100) = %v", err)
	}
	if len(api.orders) != 0 {
		t.Fatal("order created for invalid amount")
	}
	url, err := StartTopUp(context.Background(), api, 500)
	if err != nil || url != "https://pay.example/ord_1" {
		t.Errorf("StartTopUp = %q, %v", url, err)
	}
}

func TestWithdraw_BlockedAboveBalance(t *testing.T) {
	api := &fakeAPI{}
	if err := Withdraw(context.Background(), api, "asha@ybl", 1000, 750); !errors.Is(err, ErrOverBalance) {
		t.Fatalf("Withdraw = %v", err)
	}
	if api.redeemed != 0 {
		t.Error("redeem called despite validation failure")
	}
	if err := Withdraw(context.Background(), api, "asha@ybl", 600, 750); err != nil || api.redeemed != 600 {
		t.Errorf("Withdraw = %v, redeemed %d", err, api.redeemed)
	}
}

func TestFilters(t *testing.T) {
	txs := []models.Transaction{{Type: models.TxCredit}, {Type: models.TxDebit}, {Type: models.TxCredit}}
	if got := FilterTransactions(txs, models.TxCredit); len(got) != 2 {
		t.Errorf("credit = %d, want 2", len(got))
	}
	if got := FilterTransactions(txs, "all"); len(got) != 3 {
		t.Errorf("all = %d", len(got))
	}
	rs := []models.Redemption{{Status: models.RedemptionPending}, {Status: models.RedemptionApproved}}
	if got := FilterRedemptions(rs, models.RedemptionApproved); len(got) != 1 {
		t.Errorf("approved = %d", len(got))
	}
}
