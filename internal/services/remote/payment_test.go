package remote

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offline-payment-sync/internal/errs"
)

func newTestPaymentClient(t *testing.T, handler http.Handler) *PaymentClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPaymentClient(PaymentOptions{
		BaseURL:  srv.URL,
		Username: "agent",
		Password: "secret",
		Timeout:  5 * time.Second,
		Retry:    RetryPolicy{Retries: 2, Backoff: time.Millisecond},
	})
}

func loginHandler(mux *http.ServeMux) {
	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"access_token_general":"tok-123"}`)
	})
}

func TestPaymentClient_Login(t *testing.T) {
	t.Run("token stored", func(t *testing.T) {
		mux := http.NewServeMux()
		loginHandler(mux)
		c := newTestPaymentClient(t, mux)

		tok, err := c.Login(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-123", tok)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		c := newTestPaymentClient(t, mux)

		_, err := c.Login(context.Background())
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.KindAuth))
	})

	t.Run("missing token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		})
		c := newTestPaymentClient(t, mux)

		_, err := c.Login(context.Background())
		assert.True(t, errs.Is(err, errs.KindAuth))
	})
}

func TestPaymentClient_GetAllTransactions(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
	}{
		{
			name:    "bare list",
			body:    `[{"id":1,"registrationReferenceId":"a","status":"waiting"},{"id":2,"registrationReferenceId":"b"}]`,
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "transactions envelope",
			body:    `{"transactions":[{"id":"7","registrationReferenceId":"a"}]}`,
			wantIDs: []string{"7"},
		},
		{
			name:    "data envelope",
			body:    `{"data":[{"id":9}],"meta":{"total":1}}`,
			wantIDs: []string{"9"},
		},
		{
			name:    "unknown envelope is empty",
			body:    `{"items":[{"id":1}]}`,
			wantIDs: []string{},
		},
		{
			name:    "non-list envelope key is empty",
			body:    `{"transactions":{"count":0}}`,
			wantIDs: []string{},
		},
		{
			name:    "non-list transactions key falls through to data",
			body:    `{"transactions":{"count":0},"data":[{"id":4}]}`,
			wantIDs: []string{"4"},
		},
		{
			name:    "malformed entry skipped",
			body:    `[{"id":1},{"id":{"nested":true}},{"id":3}]`,
			wantIDs: []string{"1", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			loginHandler(mux)
			mux.HandleFunc("/api/programs/3/transactions", func(w http.ResponseWriter, r *http.Request) {
				cookie, err := r.Cookie(TokenCookie)
				if assert.NoError(t, err) {
					assert.Equal(t, "tok-123", cookie.Value)
				}
				assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
				_, _ = io.WriteString(w, tt.body)
			})
			c := newTestPaymentClient(t, mux)
			_, err := c.Login(context.Background())
			require.NoError(t, err)

			txs, err := c.GetAllTransactions(context.Background(), "3")
			require.NoError(t, err)

			ids := make([]string, 0, len(txs))
			for _, tx := range txs {
				ids = append(ids, tx.ID.String())
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestPaymentClient_RequiresLogin(t *testing.T) {
	c := newTestPaymentClient(t, http.NewServeMux())

	_, err := c.GetTransactions(context.Background(), "3", "12")
	assert.True(t, errs.Is(err, errs.KindAuth))
}

func TestPaymentClient_RetriesTransientStatus(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	loginHandler(mux)
	mux.HandleFunc("/api/programs/3/payments/12/transactions", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[{"id":5}]`)
	})
	c := newTestPaymentClient(t, mux)
	_, err := c.Login(context.Background())
	require.NoError(t, err)

	txs, err := c.GetTransactions(context.Background(), "3", "12")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPaymentClient_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	loginHandler(mux)
	mux.HandleFunc("/api/programs/3/registrations/44", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})
	c := newTestPaymentClient(t, mux)
	_, err := c.Login(context.Background())
	require.NoError(t, err)

	_, err = c.GetRegistration(context.Background(), "3", "44")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindFetch))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPaymentClient_GetRegistrationKeepsDigits(t *testing.T) {
	mux := http.NewServeMux()
	loginHandler(mux)
	mux.HandleFunc("/api/programs/3/registrations/44", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":44,"phoneNumber":254700000001,"fullName":"Amina"}`)
	})
	c := newTestPaymentClient(t, mux)
	_, err := c.Login(context.Background())
	require.NoError(t, err)

	reg, err := c.GetRegistration(context.Background(), "3", "44")
	require.NoError(t, err)
	assert.Equal(t, "254700000001", reg.Field("phoneNumber"))
	assert.Equal(t, "Amina", reg.Field("fullName"))
	assert.Equal(t, "", reg.Field("missing"))
}

func TestPaymentClient_SubmitReconciliation(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantSuccess bool
	}{
		{name: "created is success", status: http.StatusCreated, wantSuccess: true},
		{name: "ok is not success", status: http.StatusOK, wantSuccess: false},
		{name: "bad request", status: http.StatusBadRequest, wantSuccess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			loginHandler(mux)
			mux.HandleFunc("/api/programs/3/payments/12/excel-reconciliation", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				file, header, err := r.FormFile("file")
				if assert.NoError(t, err) {
					defer file.Close()
					assert.Equal(t, "reconciliation.csv", header.Filename)
					assert.Equal(t, "text/csv", header.Header.Get("Content-Type"))
					data, _ := io.ReadAll(file)
					assert.Equal(t, "phoneNumber,status\n111,success\n", string(data))
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"result":"done"}`)
			})
			c := newTestPaymentClient(t, mux)
			_, err := c.Login(context.Background())
			require.NoError(t, err)

			outcome, err := c.SubmitReconciliation(context.Background(), "3", "12", []byte("phoneNumber,status\n111,success\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, outcome.Success)
			assert.Equal(t, tt.status, outcome.StatusCode)
			assert.Equal(t, `{"result":"done"}`, outcome.Body)
		})
	}
}

func TestPaymentClient_SubmitReconciliationRetries(t *testing.T) {
	tests := []struct {
		name        string
		first       int
		wantUploads int32
		wantStatus  int
		wantSuccess bool
	}{
		{name: "gateway timeout is not re-sent", first: http.StatusGatewayTimeout, wantUploads: 1, wantStatus: http.StatusGatewayTimeout},
		{name: "bad gateway is not re-sent", first: http.StatusBadGateway, wantUploads: 1, wantStatus: http.StatusBadGateway},
		{name: "unavailable is re-sent", first: http.StatusServiceUnavailable, wantUploads: 2, wantStatus: http.StatusCreated, wantSuccess: true},
		{name: "throttled is re-sent", first: http.StatusTooManyRequests, wantUploads: 2, wantStatus: http.StatusCreated, wantSuccess: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var uploads int32
			mux := http.NewServeMux()
			loginHandler(mux)
			mux.HandleFunc("/api/programs/3/payments/12/excel-reconciliation", func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&uploads, 1) == 1 {
					w.WriteHeader(tt.first)
					return
				}
				w.WriteHeader(http.StatusCreated)
			})
			c := newTestPaymentClient(t, mux)
			_, err := c.Login(context.Background())
			require.NoError(t, err)

			outcome, err := c.SubmitReconciliation(context.Background(), "3", "12", []byte("phoneNumber,status\n111,success\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantUploads, atomic.LoadInt32(&uploads))
			assert.Equal(t, tt.wantStatus, outcome.StatusCode)
			assert.Equal(t, tt.wantSuccess, outcome.Success)
		})
	}
}

func TestPaymentClient_SubmitReconciliationTimeoutNotResent(t *testing.T) {
	var uploads int32
	release := make(chan struct{})
	mux := http.NewServeMux()
	loginHandler(mux)
	mux.HandleFunc("/api/programs/3/payments/12/excel-reconciliation", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&uploads, 1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	c := NewPaymentClient(PaymentOptions{
		BaseURL:  srv.URL,
		Username: "agent",
		Password: "secret",
		Timeout:  200 * time.Millisecond,
		Retry:    RetryPolicy{Retries: 2, Backoff: time.Millisecond},
	})
	_, err := c.Login(context.Background())
	require.NoError(t, err)

	_, err = c.SubmitReconciliation(context.Background(), "3", "12", []byte("phoneNumber,status\n111,success\n"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindSubmission))
	assert.Equal(t, int32(1), atomic.LoadInt32(&uploads))
}

func TestNotSent(t *testing.T) {
	dial := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}}
	assert.True(t, notSent(dial))

	timeout := &url.Error{Op: "Post", URL: "http://x", Err: context.DeadlineExceeded}
	assert.False(t, notSent(timeout))

	reset := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}}
	assert.False(t, notSent(reset))
}
