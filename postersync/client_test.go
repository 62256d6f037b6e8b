package postersync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("POSTER_API_BASE_URL", srv.URL)
	t.Setenv("POSTER_TOKEN", "test-token")

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestClientEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/menu.getCategories" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "test-token" {
			t.Errorf("token missing from query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"response":[{"category_id":7,"category_name":"Пиво","sort_order":"3"}]}`))
	}))

	categories, err := client.FetchCategories(context.Background())
	if err != nil {
		t.Fatalf("FetchCategories: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("categories = %d", len(categories))
	}
	if categories[0].CategoryId.String() != "7" {
		t.Errorf("category id = %q, want 7", categories[0].CategoryId)
	}
	if categories[0].SortOrder.String() != "3" {
		t.Errorf("sort order = %q", categories[0].SortOrder)
	}
}

func TestClientEmptyResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":[]}`))
	}))

	products, err := client.FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("FetchProducts: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("products = %d, want 0", len(products))
	}
}

func TestClientProtocolError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.FetchStorages(context.Background())
	if !errors.Is(err, ErrRemoteProtocol) {
		t.Fatalf("err = %v, want ErrRemoteProtocol", err)
	}
}

func TestClientMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))

	_, err := client.FetchCategories(context.Background())
	if !errors.Is(err, ErrRemoteProtocol) {
		t.Fatalf("err = %v, want ErrRemoteProtocol", err)
	}
}

func TestClientApplicationError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":32,"message":"wrong token"}}`))
	}))

	_, err := client.FetchCategories(context.Background())
	if !errors.Is(err, ErrRemoteProtocol) {
		t.Fatalf("err = %v, want ErrRemoteProtocol", err)
	}
}

func TestClientLeftoversQuery(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("storage_id"); got != "4" {
			t.Errorf("storage_id = %q", got)
		}
		w.Write([]byte(`{"response":[{"ingredient_id":"9","storage_ingredient_left":"2.75","ingredient_unit":"кг"}]}`))
	}))

	leftovers, err := client.FetchStorageLeftovers(context.Background(), "4")
	if err != nil {
		t.Fatalf("FetchStorageLeftovers: %v", err)
	}
	if len(leftovers) != 1 || leftovers[0].Left.String() != "2.75" {
		t.Fatalf("leftovers = %+v", leftovers)
	}
}

func TestClientRequiresToken(t *testing.T) {
	t.Setenv("POSTER_TOKEN", "")
	if _, err := NewClient(); err == nil {
		t.Fatal("NewClient should fail without a token")
	}
}
