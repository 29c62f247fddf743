package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/models"
)

// FormOptions configures a FormClient.
type FormOptions struct {
	BaseURL    string
	Token      string
	AssetID    string
	PhotoField string
	Timeout    time.Duration
	Retry      RetryPolicy
	Verbose    bool
}

// FormClient reads submissions and photos from the form-data API.
type FormClient struct {
	baseURL    string
	token      string
	assetID    string
	httpClient *http.Client
	retry      RetryPolicy
	resolvers  []PhotoResolver
	verbose    bool
}

func NewFormClient(opts FormOptions) *FormClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	photoField := opts.PhotoField
	if photoField == "" {
		photoField = "photo"
	}
	return &FormClient{
		baseURL: baseURL,
		token:   opts.Token,
		assetID: opts.AssetID,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		retry:     opts.Retry,
		resolvers: DefaultResolvers(baseURL, opts.AssetID, photoField),
		verbose:   opts.Verbose,
	}
}

func (c *FormClient) get(ctx context.Context, endpoint string) (*response, error) {
	return c.retry.do(ctx, c.httpClient, "FORM", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Token "+c.token)
		return req, nil
	})
}

type submissionPage struct {
	Results []json.RawMessage `json:"results"`
}

// GetSubmission returns the submission whose _uuid equals referenceID, or
// nil when the form holds none.
func (c *FormClient) GetSubmission(ctx context.Context, referenceID string) (*models.FormSubmission, error) {
	query, err := json.Marshal(map[string]string{"_uuid": referenceID})
	if err != nil {
		return nil, errs.New(errs.KindFetch, "build submission query", err)
	}
	endpoint := fmt.Sprintf("%s/api/v2/assets/%s/data.json?query=%s",
		c.baseURL, url.PathEscape(c.assetID), url.QueryEscape(string(query)))

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, errs.New(errs.KindFetch, "get submission "+referenceID, err)
	}
	if !resp.ok() {
		return nil, errs.Newf(errs.KindFetch, "get submission %s: status %d", referenceID, resp.StatusCode)
	}

	var page submissionPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, errs.New(errs.KindParse, "decode submission page", err)
	}
	if len(page.Results) == 0 {
		return nil, nil
	}

	var sub models.FormSubmission
	if err := json.Unmarshal(page.Results[0], &sub); err != nil {
		return nil, errs.New(errs.KindParse, "decode submission "+referenceID, err)
	}
	return &sub, nil
}

// ResolvePhoto lists the candidate photo URLs of a submission, best first.
func (c *FormClient) ResolvePhoto(sub *models.FormSubmission) []string {
	var urls []string
	for _, r := range c.resolvers {
		u, err := r.Locate(sub)
		if err != nil {
			if c.verbose || !errors.Is(err, errNotApplicable) {
				log.Printf("[FORM] %s resolver for %s: %v", r.Name(), sub.UUID, err)
			}
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

// FetchPhoto downloads the raw photo of one beneficiary. Each candidate URL
// is tried in resolver order; the first successful download wins.
func (c *FormClient) FetchPhoto(ctx context.Context, referenceID string) ([]byte, error) {
	sub, err := c.GetSubmission(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errs.Newf(errs.KindFetch, "no form submission for %s", referenceID)
	}

	urls := c.ResolvePhoto(sub)
	if len(urls) == 0 {
		return nil, errs.Newf(errs.KindFetch, "no photo location for %s", referenceID)
	}

	var lastErr error
	for _, u := range urls {
		resp, err := c.get(ctx, u)
		if err != nil {
			lastErr = err
			log.Printf("[FORM] Photo download failed for %s: %v", referenceID, err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d from %s", resp.StatusCode, u)
			log.Printf("[FORM] Photo download failed for %s: status %d", referenceID, resp.StatusCode)
			continue
		}
		if c.verbose {
			log.Printf("[FORM] Photo for %s downloaded (%d bytes)", referenceID, len(resp.Body))
		}
		return resp.Body, nil
	}
	return nil, errs.New(errs.KindFetch, "download photo for "+referenceID, lastErr)
}
