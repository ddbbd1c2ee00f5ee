package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdmin(t *testing.T, handler http.HandlerFunc) shopify.Admin {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return shopify.NewClientAt(server.URL, "demo.myshopify.com", "shpat_test", "2025-01", server.Client())
}

// TestShopifyOrderAdapter_SearchByName_Success verifies order fetching and mapping.
func TestShopifyOrderAdapter_SearchByName_Success(t *testing.T) {
	mockResponse := `{"data":{"orders":{"edges":[{"node":{
		"id":"gid://shopify/Order/1",
		"name":"#1001",
		"email":"test@example.com",
		"displayFulfillmentStatus":"FULFILLED",
		"fulfillments":[{"trackingInfo":[{"number":"1Z999AA10123456784","url":"https://www.ups.com/track?tracknum=1Z999AA10123456784","company":"UPS"}]}],
		"lineItems":{"edges":[{"node":{"name":"Coffee Mug","quantity":2}},{"node":{"name":"T-Shirt - M","quantity":1}}]}
	}}]}}}`

	admin := newTestAdmin(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req shopify.GraphQLRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "name:'#1001'", req.Variables["query"])
		assert.EqualValues(t, 5, req.Variables["first"])
		w.Write([]byte(mockResponse))
	})

	orders, err := NewShopifyOrderAdapter().SearchByName(context.Background(), admin, "#1001", 5)

	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "gid://shopify/Order/1", order.ID)
	assert.Equal(t, "#1001", order.Name)
	assert.Equal(t, "test@example.com", order.Email)
	assert.Equal(t, domain.FulfillmentStatusFulfilled, order.Status)
	require.Len(t, order.Fulfillments, 1)
	assert.Equal(t, domain.TrackingInfo{
		Carrier: "UPS",
		Number:  "1Z999AA10123456784",
		URL:     "https://www.ups.com/track?tracknum=1Z999AA10123456784",
	}, order.Fulfillments[0].Tracking[0])
	assert.Equal(t, []domain.OrderItem{{Name: "Coffee Mug", Quantity: 2}, {Name: "T-Shirt - M", Quantity: 1}}, order.Items)
}

// TestShopifyOrderAdapter_SearchByName_Empty verifies zero candidates map to an empty slice.
func TestShopifyOrderAdapter_SearchByName_Empty(t *testing.T) {
	admin := newTestAdmin(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"orders":{"edges":[]}}}`))
	})

	orders, err := NewShopifyOrderAdapter().SearchByName(context.Background(), admin, "#1", 5)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

// TestShopifyOrderAdapter_SearchByName_NoopAdmin verifies the development admin yields nothing.
func TestShopifyOrderAdapter_SearchByName_NoopAdmin(t *testing.T) {
	orders, err := NewShopifyOrderAdapter().SearchByName(context.Background(), shopify.NoopAdmin{}, "#1", 5)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

// TestShopifyOrderAdapter_SearchByName_GraphQLError verifies API errors are returned.
func TestShopifyOrderAdapter_SearchByName_GraphQLError(t *testing.T) {
	admin := newTestAdmin(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Invalid search field"}]}`))
	})

	orders, err := NewShopifyOrderAdapter().SearchByName(context.Background(), admin, "#1", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, shopify.ErrGraphQL)
	assert.Nil(t, orders)
}

// TestShopifyOrderAdapter_SearchByName_BadShape verifies decode errors are returned.
func TestShopifyOrderAdapter_SearchByName_BadShape(t *testing.T) {
	admin := newTestAdmin(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"orders":"nope"}}`))
	})

	_, err := NewShopifyOrderAdapter().SearchByName(context.Background(), admin, "#1", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode orders")
}

func TestNameFilter(t *testing.T) {
	assert.Equal(t, "name:'#1001'", NameFilter("#1001"))
	assert.Equal(t, `name:'O\'Brien-7'`, NameFilter("O'Brien-7"))
	assert.Equal(t, `name:'a\\b'`, NameFilter(`a\b`))
}
