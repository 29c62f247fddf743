package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/models"
)

// TokenCookie is the cookie the payment API reads its session token from.
const TokenCookie = "access_token_general"

// PaymentOptions configures a PaymentClient.
type PaymentOptions struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	Retry    RetryPolicy
	Verbose  bool
}

// PaymentClient talks to the remote case-management API. Login must
// succeed before any other call; the token is then shared read-only.
type PaymentClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	retry      RetryPolicy
	verbose    bool
	token      string
}

func NewPaymentClient(opts PaymentOptions) *PaymentClient {
	return &PaymentClient{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		username: opts.Username,
		password: opts.Password,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		retry:   opts.Retry,
		verbose: opts.Verbose,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token_general"`
}

// Login exchanges the configured credentials for a session token.
func (c *PaymentClient) Login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(loginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return "", errs.New(errs.KindAuth, "marshal login request", err)
	}

	endpoint := c.baseURL + "/api/users/login"
	resp, err := c.retry.do(ctx, c.httpClient, "PAYMENT", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return "", errs.New(errs.KindAuth, "login", err)
	}
	if !resp.ok() {
		return "", errs.Newf(errs.KindAuth, "login returned status %d: %s", resp.StatusCode, snippet(resp.Body))
	}

	var body loginResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", errs.New(errs.KindAuth, "decode login response", err)
	}
	if body.AccessToken == "" {
		return "", errs.Newf(errs.KindAuth, "login succeeded but token missing")
	}

	c.token = body.AccessToken
	log.Printf("[PAYMENT] Logged in as %s", c.username)
	return c.token, nil
}

func (c *PaymentClient) authorize(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: c.token})
	req.Header.Set("Authorization", "Bearer "+c.token)
}

func (c *PaymentClient) get(ctx context.Context, op, path string) ([]byte, error) {
	if c.token == "" {
		return nil, errs.Newf(errs.KindAuth, "%s: not logged in", op)
	}

	endpoint := c.baseURL + path
	resp, err := c.retry.do(ctx, c.httpClient, "PAYMENT", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		c.authorize(req)
		return req, nil
	})
	if err != nil {
		return nil, errs.New(errs.KindFetch, op, err)
	}
	if !resp.ok() {
		return nil, errs.Newf(errs.KindFetch, "%s: status %d: %s", op, resp.StatusCode, snippet(resp.Body))
	}
	return resp.Body, nil
}

// GetTransactions lists the transactions of one payment.
func (c *PaymentClient) GetTransactions(ctx context.Context, programID, paymentID string) ([]models.RemoteTransaction, error) {
	path := fmt.Sprintf("/api/programs/%s/payments/%s/transactions", url.PathEscape(programID), url.PathEscape(paymentID))
	body, err := c.get(ctx, "get payment transactions", path)
	if err != nil {
		return nil, err
	}
	return c.decodeTransactions(body)
}

// GetAllTransactions lists every transaction of a program. An unrecognised
// response shape yields an empty list and a warning.
func (c *PaymentClient) GetAllTransactions(ctx context.Context, programID string) ([]models.RemoteTransaction, error) {
	path := fmt.Sprintf("/api/programs/%s/transactions", url.PathEscape(programID))
	body, err := c.get(ctx, "get program transactions", path)
	if err != nil {
		return nil, err
	}
	return c.decodeTransactions(body)
}

func (c *PaymentClient) decodeTransactions(body []byte) ([]models.RemoteTransaction, error) {
	list, err := parseTransactionList(body)
	if err != nil {
		return nil, err
	}

	switch list.Shape {
	case shapeUnknown:
		log.Printf("[PAYMENT] Unexpected transaction response structure (keys: %s); treating as empty", strings.Join(list.Keys, ", "))
		return []models.RemoteTransaction{}, nil
	case shapeTransactionsEnvelope, shapeDataEnvelope:
		if c.verbose {
			log.Printf("[PAYMENT] Transactions delivered in %q envelope", list.Shape.String())
		}
	}

	txs := make([]models.RemoteTransaction, 0, len(list.Items))
	skipped := 0
	for i, item := range list.Items {
		var tx models.RemoteTransaction
		if err := json.Unmarshal(item, &tx); err != nil {
			skipped++
			log.Printf("[PAYMENT] Skipping transaction %d: %v", i, errs.New(errs.KindParse, "decode transaction", err))
			continue
		}
		txs = append(txs, tx)
	}
	if skipped > 0 {
		log.Printf("[PAYMENT] Skipped %d malformed transaction entries", skipped)
	}
	return txs, nil
}

// GetRegistration fetches a full beneficiary profile.
func (c *PaymentClient) GetRegistration(ctx context.Context, programID, registrationID string) (models.RegistrationRecord, error) {
	path := fmt.Sprintf("/api/programs/%s/registrations/%s", url.PathEscape(programID), url.PathEscape(registrationID))
	body, err := c.get(ctx, "get registration "+registrationID, path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var reg models.RegistrationRecord
	if err := dec.Decode(&reg); err != nil {
		return nil, errs.New(errs.KindParse, "decode registration "+registrationID, err)
	}
	if reg == nil {
		return nil, errs.Newf(errs.KindFetch, "registration %s: empty response", registrationID)
	}
	return reg, nil
}

// SubmitReconciliation uploads a reconciliation file for one payment. Only
// 201 Created counts as success; any other status is a failure outcome that
// carries the response body. An error is returned only when no response
// could be obtained at all. The upload is never re-sent once the server may
// have received it.
func (c *PaymentClient) SubmitReconciliation(ctx context.Context, programID, paymentID string, csvData []byte) (models.SubmissionOutcome, error) {
	if c.token == "" {
		return models.SubmissionOutcome{}, errs.Newf(errs.KindAuth, "submit reconciliation: not logged in")
	}

	endpoint := c.baseURL + fmt.Sprintf("/api/programs/%s/payments/%s/excel-reconciliation", url.PathEscape(programID), url.PathEscape(paymentID))
	resp, err := c.retry.doOnce(ctx, c.httpClient, "PAYMENT", func(ctx context.Context) (*http.Request, error) {
		body, contentType, err := reconciliationForm(csvData)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		c.authorize(req)
		return req, nil
	})
	if err != nil {
		return models.SubmissionOutcome{}, errs.New(errs.KindSubmission, "upload reconciliation for payment "+paymentID, err)
	}

	outcome := models.SubmissionOutcome{
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
		Success:    resp.StatusCode == http.StatusCreated,
	}
	if outcome.Success {
		log.Printf("[PAYMENT] Reconciliation accepted for payment %s", paymentID)
	} else {
		log.Printf("[PAYMENT] Reconciliation rejected for payment %s (%d): %s", paymentID, resp.StatusCode, snippet(resp.Body))
	}
	return outcome, nil
}

func reconciliationForm(csvData []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="reconciliation.csv"`)
	header.Set("Content-Type", "text/csv")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(csvData); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
