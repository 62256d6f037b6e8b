package postersync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var (
	// ErrRemoteUnavailable marks network failures and timeouts talking to
	// the POS API.
	ErrRemoteUnavailable = errors.New("poster api unavailable")
	// ErrRemoteProtocol marks non-2xx statuses and malformed response
	// bodies.
	ErrRemoteProtocol = errors.New("poster api protocol error")
)

// Catalog is the read-only POS API surface the reconciliation engine
// depends on.
type Catalog interface {
	FetchCategories(ctx context.Context) ([]RemoteCategory, error)
	FetchProducts(ctx context.Context) ([]RemoteProduct, error)
	FetchStorages(ctx context.Context) ([]RemoteStorage, error)
	FetchStorageLeftovers(ctx context.Context, storageId string) ([]RemoteLeftover, error)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient() (*Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("POSTER_API_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://joinposter.com/api"
	}
	token := strings.TrimSpace(os.Getenv("POSTER_TOKEN"))
	if token == "" {
		return nil, errors.New("poster api token is empty")
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// envelope is the fixed response shape. Absent collections come back as
// an empty array, never null.
type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    json.RawMessage `json:"error"`
}

func (c *Client) getList(ctx context.Context, method string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.token)
	endpoint := c.baseURL + "/" + method + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemoteUnavailable, method, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %d", ErrRemoteProtocol, method, resp.StatusCode)
	}

	var parsed envelope
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemoteProtocol, method, err)
	}
	if len(parsed.Error) > 0 && !strings.EqualFold(strings.TrimSpace(string(parsed.Error)), "null") {
		return fmt.Errorf("%w: %s: %s", ErrRemoteProtocol, method, strings.TrimSpace(string(parsed.Error)))
	}
	if len(parsed.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(parsed.Response, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemoteProtocol, method, err)
	}
	return nil
}

func (c *Client) FetchCategories(ctx context.Context) ([]RemoteCategory, error) {
	var categories []RemoteCategory
	if err := c.getList(ctx, "menu.getCategories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) FetchProducts(ctx context.Context) ([]RemoteProduct, error) {
	var products []RemoteProduct
	if err := c.getList(ctx, "menu.getProducts", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) FetchStorages(ctx context.Context) ([]RemoteStorage, error) {
	var storages []RemoteStorage
	if err := c.getList(ctx, "storage.getStorages", nil, &storages); err != nil {
		return nil, err
	}
	return storages, nil
}

func (c *Client) FetchStorageLeftovers(ctx context.Context, storageId string) ([]RemoteLeftover, error) {
	params := url.Values{}
	params.Set("storage_id", storageId)

	var leftovers []RemoteLeftover
	if err := c.getList(ctx, "storage.getStorageLeftovers", params, &leftovers); err != nil {
		return nil, err
	}
	return leftovers, nil
}
