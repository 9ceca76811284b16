// internal/app/features/wallet/view.go
package wallet

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/app/wallet"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// tableState is the query-string state of both tables.
type tableState struct {
	TxType   string
	TxPage   int
	RsStatus string
	RsPage   int
}

func parseTableState(r *http.Request) tableState {
	return tableState{
		TxType:   query.Get(r, "tx"),
		TxPage:   paging.ParsePage(r, "txpage"),
		RsStatus: query.Get(r, "rs"),
		RsPage:   paging.ParsePage(r, "rspage"),
	}
}

// URL is the wallet URL reproducing s. Defaults are left out.
func (s tableState) URL() string {
	q := url.Values{}
	if s.TxType != "" && s.TxType != "all" {
		q.Set("tx", s.TxType)
	}
	if s.TxPage > 1 {
		q.Set("txpage", strconv.Itoa(s.TxPage))
	}
	if s.RsStatus != "" && s.RsStatus != "all" {
		q.Set("rs", s.RsStatus)
	}
	if s.RsPage > 1 {
		q.Set("rspage", strconv.Itoa(s.RsPage))
	}
	if len(q) == 0 {
		return walletPath
	}
	return walletPath + "?" + q.Encode()
}

// ServeWallet renders GET /wallet. HTMX requests aimed at one table's
// wrapper get only that table, loaded alone.
func (h *Handler) ServeWallet(w http.ResponseWriter, r *http.Request) {
	st := parseTableState(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if auth.IsHTMX(r) {
		switch r.Header.Get("HX-Target") {
		case txTarget:
			txs, err := h.API.Transactions(ctx, wallet.TransactionWindow)
			if err != nil {
				h.Log.Warn("load transactions failed", zap.Error(err))
				uierrors.RenderNotice(w, auth.FlashError, "Couldn't load transactions. Please try again.")
				return
			}
			w.Header().Set("HX-Replace-Url", st.URL())
			templates.RenderSnippet(w, "wallet_transactions", newTxTable(txs, st))
			return
		case rsTarget:
			rs, err := h.API.Redemptions(ctx, wallet.TransactionWindow)
			if err != nil {
				h.Log.Warn("load redemptions failed", zap.Error(err))
				uierrors.RenderNotice(w, auth.FlashError, "Couldn't load redemptions. Please try again.")
				return
			}
			w.Header().Set("HX-Replace-Url", st.URL())
			templates.RenderSnippet(w, "wallet_redemptions", newRsTable(rs, st))
			return
		}
	}

	p := wallet.Load(ctx, h.API)
	data := pageData{
		BaseVM: viewdata.NewBaseVM(w, r, "Wallet", "/"),
		Add:    addForm{Target: addTarget, Min: wallet.MinAddPoints, Max: wallet.MaxAddPoints},
		Withdraw: withdrawForm{
			Target: wdTarget,
			Min:    wallet.MinWithdrawPoints,
		},
	}
	data.Add.CSRF = data.CSRFToken
	data.Withdraw.CSRF = data.CSRFToken
	if p.WalletErr != nil {
		h.Log.Warn("load balance failed", zap.Error(p.WalletErr))
		data.BalanceErr = "Couldn't load your balance."
	} else {
		data.Balance = newBalance(p.Wallet)
		data.Withdraw.Max = p.Wallet.CurrentBalance
	}
	data.Tx = newTxTable(p.Transactions, st)
	if p.TxErr != nil {
		h.Log.Warn("load transactions failed", zap.Error(p.TxErr))
		data.Tx.Error = "Couldn't load transactions."
	}
	data.Rs = newRsTable(p.Redemptions, st)
	if p.RedeemErr != nil {
		h.Log.Warn("load redemptions failed", zap.Error(p.RedeemErr))
		data.Rs.Error = "Couldn't load redemptions."
	}
	templates.Render(w, r, "wallet_page", data)
}

func newBalance(m models.Wallet) balanceVM {
	return balanceVM{
		Current:    m.CurrentBalance,
		Earned:     m.TotalEarning,
		Withdrawn:  m.TotalWithdrawal,
		WorthLabel: wallet.FormatRupees(wallet.RupeesForPoints(m.CurrentBalance)),
	}
}

func newTxTable(txs []models.Transaction, st tableState) txTable {
	filtered := wallet.FilterTransactions(txs, st.TxType)
	rows, pg := paging.Slice(filtered, st.TxPage, paging.TableSize)
	t := txTable{
		Target: txTarget,
		Type:   st.TxType,
		Keep:   keep("rs", st.RsStatus, "rspage", st.RsPage),
		Types:  txTypes,
		Pager: paging.NewPager(pg, paging.TableSize, len(rows), func(n int) string {
			s := st
			s.TxPage = n
			return s.URL()
		}),
	}
	for _, tx := range rows {
		t.Rows = append(t.Rows, txRow{
			Date:         formatDate(tx.CreatedAt),
			Type:         tx.Type,
			Points:       tx.Points,
			Credit:       isCredit(tx.Type),
			BalanceAfter: tx.BalanceAfter,
			Detail:       txDetail(tx),
		})
	}
	if len(t.Rows) == 0 {
		t.Empty = "No transactions yet."
		if st.TxType != "" && st.TxType != "all" {
			t.Empty = "No transactions of this type."
		}
	}
	return t
}

func newRsTable(rs []models.Redemption, st tableState) rsTable {
	filtered := wallet.FilterRedemptions(rs, st.RsStatus)
	rows, pg := paging.Slice(filtered, st.RsPage, paging.TableSize)
	t := rsTable{
		Target:   rsTarget,
		Status:   st.RsStatus,
		Keep:     keep("tx", st.TxType, "txpage", st.TxPage),
		Statuses: rsStatuses,
		Pager: paging.NewPager(pg, paging.TableSize, len(rows), func(n int) string {
			s := st
			s.RsPage = n
			return s.URL()
		}),
	}
	for _, rd := range rows {
		t.Rows = append(t.Rows, rsRow{
			Date:   formatDate(rd.CreatedAt),
			UPIID:  rd.UPIID,
			Points: rd.RewardBalance,
			Amount: wallet.FormatRupees(wallet.RupeesForPoints(rd.RewardBalance)),
			Status: rd.Status,
			Reason: rd.RejectionReason,
		})
	}
	if len(t.Rows) == 0 {
		t.Empty = "No withdrawal requests yet."
		if st.RsStatus != "" && st.RsStatus != "all" {
			t.Empty = "No requests with this status."
		}
	}
	return t
}

func txDetail(tx models.Transaction) string {
	switch {
	case tx.ResourceType != "":
		return tx.ResourceType
	case tx.OrderID != "":
		return "Order " + tx.OrderID
	}
	return ""
}

// keep lists the other table's state so a filter form can carry it.
func keep(filterKey, filter, pageKey string, page int) map[string]string {
	m := map[string]string{}
	if filter != "" && filter != "all" {
		m[filterKey] = filter
	}
	if page > 1 {
		m[pageKey] = strconv.Itoa(page)
	}
	return m
}
