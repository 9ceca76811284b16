package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/v1", srv.Client(), nil)
	require.NoError(t, err)
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	for _, raw := range []string{"", "/api", "ftp://x", "localhost:8080"} {
		_, err := New(raw, nil, nil)
		assert.Error(t, err, "base %q", raw)
	}
}

func TestList_DecodesItemsAndPagination(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/notes", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "CSE", r.URL.Query().Get("branch"))
		assert.Equal(t, "sid=abc", r.Header.Get("Cookie"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"notes": []map[string]any{
					{"_id": "n1", "title": "DBMS unit 1", "owner": map[string]any{"_id": "u1", "username": "asha"}},
				},
				"pagination": map[string]any{"currentPage": 2, "totalPages": 3, "totalItems": 30},
			},
		})
	})

	ctx := WithSessionCookie(context.Background(), "sid=abc")
	q := url.Values{"page": {"2"}, "branch": {"CSE"}}
	page, err := c.List(ctx, models.KindNotes, q)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "DBMS unit 1", page.Items[0].Title)
	assert.Equal(t, "asha", page.Items[0].Owner.Username)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.True(t, page.Pagination.HasNextPage)
	assert.True(t, page.Pagination.HasPrevPage)
}

func TestList_UsesKindItemsKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"storeItems": []map[string]any{{"_id": "s1", "name": "Calculator", "price": 300}},
				"pagination": map[string]any{"currentPage": 1, "totalPages": 1},
			},
		})
	})

	page, err := c.List(context.Background(), models.KindStore, nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Calculator", page.Items[0].DisplayTitle())
	assert.False(t, page.Pagination.HasNextPage)
}

func TestList_EmptyKeyYieldsEmptySlice(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{}})
	})

	page, err := c.List(context.Background(), models.KindVideos, nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
}

func TestAPIError_MessageAndSentinels(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/notes/slug/missing":
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Note not found"})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Login required"})
		}
	})

	_, err := c.GetBySlug(context.Background(), models.KindNotes, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Note not found", UserMessage(err, "fallback"))

	err = c.Delete(context.Background(), models.KindNotes, "n1")
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Login required", UserMessage(err, "fallback"))

	assert.Equal(t, "fallback", UserMessage(errors.New("dial tcp: refused"), "fallback"))
}

func TestGetBySlug_AcceptsWrappedAndBare(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/pyqs/slug/wrapped" {
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"pyq": map[string]any{"_id": "p1", "year": "2023"}}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"_id": "p2", "year": "2022"}})
	})

	it, err := c.GetBySlug(context.Background(), models.KindPYQs, "wrapped")
	require.NoError(t, err)
	assert.Equal(t, "p1", it.ID)

	it, err = c.GetBySlug(context.Background(), models.KindPYQs, "bare")
	require.NoError(t, err)
	assert.Equal(t, "2022", it.Year)
}

func TestGet_FetchesByID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/store/s1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"storeItem": map[string]any{"_id": "s1", "name": "Drafter"}}})
	})

	it, err := c.Get(context.Background(), models.KindStore, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", it.ID)
	assert.Equal(t, "Drafter", it.Name)
}

func TestCreate_SuccessWithoutDataIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Note created"})
	})

	it, err := c.Create(context.Background(), models.KindNotes, map[string]any{"title": "Unit 2"})
	require.NoError(t, err)
	assert.Empty(t, it.ID)
}

func TestUpdate_SendsFieldsAsJSON(t *testing.T) {
	var got map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/notes/n1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	err := c.Update(context.Background(), models.KindNotes, "n1", map[string]any{"title": "New"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "New"}, got)
}

func TestLogin_CapturesCookies(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "a1"})
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1"})
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"user": map[string]any{"_id": "u1", "username": "asha", "email": "a@x.edu"}}})
	})

	u, cookie, err := c.Login(context.Background(), "a@x.edu", "pw")
	require.NoError(t, err)
	assert.Equal(t, "asha", u.Username)
	assert.Equal(t, "accessToken=a1; refreshToken=r1", cookie)
}

func TestLogin_NoCookieIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"_id": "u1"}})
	})

	_, _, err := c.Login(context.Background(), "a@x.edu", "pw")
	assert.Error(t, err)
}

func TestPresignAndPut(t *testing.T) {
	var putBody []byte
	var putType, putCookie string
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/api/v1/aws/presigned-url", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"uploadUrl": srv.URL + "/bucket/obj", "key": "notes/obj.pdf"})
	})
	mux.HandleFunc("/bucket/obj", func(w http.ResponseWriter, r *http.Request) {
		putType = r.Header.Get("Content-Type")
		putCookie = r.Header.Get("Cookie")
		putBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	c, err := New(srv.URL+"/api/v1", srv.Client(), nil)
	require.NoError(t, err)

	ctx := WithSessionCookie(context.Background(), "sid=abc")
	p, err := c.Presign(ctx, "obj.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "notes/obj.pdf", p.Key)

	require.NoError(t, c.PutObject(ctx, p.UploadURL, "application/pdf", []byte("%PDF-1.4")))
	assert.Equal(t, "application/pdf", putType)
	assert.Empty(t, putCookie)
	assert.Equal(t, "%PDF-1.4", string(putBody))
}

func TestWalletCalls(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/wallet/balance":
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"currentBalance": 750, "totalEarning": 1000, "totalWithdrawal": 250}})
		case "/api/v1/wallet/transactions":
			assert.Equal(t, "200", r.URL.Query().Get("limit"))
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"transactions": []map[string]any{{"type": "credit", "points": 500}}}})
		case "/api/v1/payment/create-order":
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"orderId": "ord_1"}})
		case "/api/v1/payment/initiate":
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"redirectUrl": "https://pay.example/ord_1"}})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	bal, err := c.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 750, bal.CurrentBalance)

	txs, err := c.Transactions(ctx, 200)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TxCredit, txs[0].Type)

	id, err := c.CreateOrder(ctx, 500)
	require.NoError(t, err)
	redirect, err := c.InitiatePayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/ord_1", redirect)
}

func TestChatbotLookups(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/chatbot/branches/b1/semesters/3/subjects":
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"_id": "s1", "name": "DBMS"}}})
		case "/api/v1/chatbot/subjects/s1/resources":
			assert.Equal(t, "pyqs", r.URL.Query().Get("type"))
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"_id": "p1", "title": "2023 End Sem"}}})
		default:
			http.NotFound(w, r)
		}
	})

	subs, err := c.SemesterSubjects(context.Background(), "b1", "3")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "DBMS", subs[0].Label)

	res, err := c.SubjectResources(context.Background(), "s1", "pyqs")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "2023 End Sem", res[0].Title)
}
