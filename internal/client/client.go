package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/sitedash/sitedash/internal/content/store"
)

// Client talks to the components REST API. It satisfies store.Remote.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL, e.g. "http://localhost:5000/api".
// A nil httpClient uses a client with a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field"`
}

func (c *Client) Fetch(ctx context.Context) (*content.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/components", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	var d content.Document
	if err := c.do(req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) Save(ctx context.Context, doc *content.Document) (*content.SaveOutcome, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/components", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	var out content.SaveOutcome
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do executes req and decodes a 2xx JSON body into v. A 400 becomes a
// *content.ValidationError; transport failures and other statuses are
// reported as store.ErrStoreUnavailable.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", store.ErrStoreUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("%w: decode response: %v", store.ErrStoreUnavailable, err)
		}
		return nil
	}

	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	if resp.StatusCode == http.StatusBadRequest && eb.Error != "" {
		code := content.CodeByName(eb.Code)
		if code == nil {
			code = content.ErrMalformed
		}
		return &content.ValidationError{Code: code, Field: eb.Field, Message: eb.Error}
	}
	msg := eb.Error
	if eb.Message != "" {
		msg += ": " + eb.Message
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return fmt.Errorf("%w: %s %s: status %d: %s", store.ErrStoreUnavailable, req.Method, req.URL.Path, resp.StatusCode, msg)
}
