package models

import "time"

// Transaction types reported by the ledger.
const (
	TxCredit     = "credit"
	TxDebit      = "debit"
	TxPurchase   = "purchase"
	TxEarning    = "earning"
	TxWithdrawal = "withdrawal"
)

// Redemption statuses.
const (
	RedemptionPending  = "pending"
	RedemptionApproved = "approved"
	RedemptionRejected = "rejected"
)

type Wallet struct {
	CurrentBalance  int `json:"currentBalance"`
	TotalEarning    int `json:"totalEarning"`
	TotalWithdrawal int `json:"totalWithdrawal"`
}

type Transaction struct {
	ID           string    `json:"_id,omitempty"`
	Type         string    `json:"type"`
	Points       int       `json:"points"`
	BalanceAfter int       `json:"balanceAfter"`
	OrderID      string    `json:"orderId,omitempty"`
	ResourceType string    `json:"resourceType,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Redemption struct {
	ID              string    `json:"_id,omitempty"`
	UPIID           string    `json:"upiId"`
	RewardBalance   int       `json:"rewardBalance"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
