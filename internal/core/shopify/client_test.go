package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Execute_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/api/2025-01/graphql.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var req GraphQLRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "name:'#1001'", req.Variables["query"])

		w.Write([]byte(`{"data":{"orders":{"edges":[]}}}`))
	}))
	defer server.Close()

	client := NewClientAt(server.URL, "demo.myshopify.com", "shpat_test", "2025-01", server.Client())
	resp, err := client.Execute(context.Background(), OrdersByNameQuery, map[string]interface{}{"query": "name:'#1001'", "first": 5})

	require.NoError(t, err)
	assert.JSONEq(t, `{"orders":{"edges":[]}}`, string(resp.Data))
}

func TestClient_Execute_GraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Field 'foo' doesn't exist"},{"message":"Throttled"}]}`))
	}))
	defer server.Close()

	client := NewClientAt(server.URL, "demo.myshopify.com", "shpat_test", "2025-01", server.Client())
	_, err := client.Execute(context.Background(), "{ foo }", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphQL)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestClient_Execute_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":"[API] Invalid API key or access token"}`))
	}))
	defer server.Close()

	client := NewClientAt(server.URL, "demo.myshopify.com", "bad", "2025-01", server.Client())
	_, err := client.Execute(context.Background(), "{ shop { name } }", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.NotContains(t, err.Error(), "Invalid API key")
}

func TestClient_Execute_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer server.Close()

	client := NewClientAt(server.URL, "demo.myshopify.com", "shpat_test", "2025-01", server.Client())
	_, err := client.Execute(context.Background(), "{ shop { name } }", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal response")
}

func TestClient_Execute_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	client := NewClientAt(server.URL, "demo.myshopify.com", "shpat_test", "2025-01", server.Client())
	_, err := client.Execute(ctx, "{ shop { name } }", nil)
	require.Error(t, err)
}

func TestFactory_ForShop(t *testing.T) {
	f := Factory{APIVersion: "2025-01", HTTPClient: http.DefaultClient}
	admin := f.ForShop("https://Demo.myshopify.com/", "shpat_test")

	client, ok := admin.(*Client)
	require.True(t, ok)
	assert.Equal(t, "demo.myshopify.com", client.ShopDomain())
	assert.Equal(t, "https://demo.myshopify.com/admin/api/2025-01/graphql.json", client.endpoint())
}

func TestClient_EndpointAlwaysHTTPSForShops(t *testing.T) {
	client := NewClient("localhost:8080", "shpat_test", "2025-01", http.DefaultClient)
	assert.Equal(t, "https://localhost:8080/admin/api/2025-01/graphql.json", client.endpoint())
}

func TestFactory_BaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2025-01/graphql.json", r.URL.Path)
		w.Write([]byte(`{"data":{"shop":{"name":"Demo"}}}`))
	}))
	defer server.Close()

	f := Factory{APIVersion: "2025-01", HTTPClient: server.Client(), BaseURL: server.URL + "/"}
	resp, err := f.ForShop("demo.myshopify.com", "shpat_test").Execute(context.Background(), "{ shop { name } }", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"shop":{"name":"Demo"}}`, string(resp.Data))
}

func TestNoopAdmin_Execute(t *testing.T) {
	resp, err := NoopAdmin{}.Execute(context.Background(), OrdersByNameQuery, nil)
	require.NoError(t, err)

	var data struct {
		Orders *struct{} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Nil(t, data.Orders)
}
