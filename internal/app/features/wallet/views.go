// internal/app/features/wallet/views.go
package wallet

import (
	"time"

	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
)

type option struct {
	Value string
	Label string
}

var txTypes = []option{
	{"all", "All"},
	{models.TxCredit, "Credit"},
	{models.TxDebit, "Debit"},
	{models.TxPurchase, "Purchase"},
	{models.TxEarning, "Earning"},
	{models.TxWithdrawal, "Withdrawal"},
}

var rsStatuses = []option{
	{"all", "All"},
	{models.RedemptionPending, "Pending"},
	{models.RedemptionApproved, "Approved"},
	{models.RedemptionRejected, "Rejected"},
}

func isCredit(typ string) bool {
	return typ == models.TxCredit || typ == models.TxEarning
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02 Jan 2006, 15:04")
}

type balanceVM struct {
	Current    int
	Earned     int
	Withdrawn  int
	WorthLabel string
}

type txRow struct {
	Date         string
	Type         string
	Points       int
	Credit       bool
	BalanceAfter int
	Detail       string
}

type txTable struct {
	Target string
	Type   string
	Types  []option
	Keep   map[string]string
	Rows   []txRow
	Pager  paging.Pager
	Empty  string
	Error  string
}

type rsRow struct {
	Date   string
	UPIID  string
	Points int
	Amount string
	Status string
	Reason string
}

type rsTable struct {
	Target   string
	Status   string
	Statuses []option
	Keep     map[string]string
	Rows     []rsRow
	Pager    paging.Pager
	Empty    string
	Error    string
}

type addForm struct {
	Target string
	Min    int
	Max    int
	Points string
	Quote  string
	Error  string
	CSRF   string
}

type withdrawForm struct {
	Target string
	Min    int
	Max    int
	UPIID  string
	Points string
	Error  string
	CSRF   string
}

type pageData struct {
	viewdata.BaseVM
	Balance    balanceVM
	BalanceErr string
	Add        addForm
	Withdraw   withdrawForm
	Tx         txTable
	Rs         rsTable
}
