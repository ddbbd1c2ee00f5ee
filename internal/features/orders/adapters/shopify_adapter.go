package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/orders/domain"
)

// ShopifyOrderAdapter implements the OrderProvider interface using the Admin GraphQL API.
type ShopifyOrderAdapter struct{}

// NewShopifyOrderAdapter creates a new instance of ShopifyOrderAdapter.
func NewShopifyOrderAdapter() *ShopifyOrderAdapter {
	return &ShopifyOrderAdapter{}
}

// SearchByName queries orders filtered by exact name and maps them to domain orders.
func (a *ShopifyOrderAdapter) SearchByName(ctx context.Context, admin shopify.Admin, name string, limit int) ([]domain.Order, error) {
	resp, err := admin.Execute(ctx, shopify.OrdersByNameQuery, map[string]interface{}{
		"query": NameFilter(name),
		"first": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var data ordersData
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode orders: %w", err)
		}
	}

	if data.Orders == nil {
		return nil, nil
	}

	orders := make([]domain.Order, 0, len(data.Orders.Edges))
	for _, edge := range data.Orders.Edges {
		orders = append(orders, mapToDomain(edge.Node))
	}
	return orders, nil
}

// NameFilter builds the search expression name:'<name>'. The value is quoted so a
// leading "#" or spaces survive the search syntax.
func NameFilter(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return fmt.Sprintf("name:'%s'", escaped)
}

// mapToDomain converts a raw GraphQL order node into a domain Order entity.
func mapToDomain(node orderNode) domain.Order {
	fulfillments := make([]domain.Fulfillment, 0, len(node.Fulfillments))
	for _, f := range node.Fulfillments {
		tracking := make([]domain.TrackingInfo, 0, len(f.TrackingInfo))
		for _, t := range f.TrackingInfo {
			tracking = append(tracking, domain.TrackingInfo{
				Carrier: t.Company,
				Number:  t.Number,
				URL:     t.URL,
			})
		}
		fulfillments = append(fulfillments, domain.Fulfillment{Tracking: tracking})
	}

	items := make([]domain.OrderItem, 0, len(node.LineItems.Edges))
	for _, edge := range node.LineItems.Edges {
		items = append(items, domain.OrderItem{
			Name:     edge.Node.Name,
			Quantity: edge.Node.Quantity,
		})
	}

	return domain.Order{
		ID:           node.ID,
		Name:         node.Name,
		Email:        node.Email,
		Status:       domain.FulfillmentStatus(node.DisplayFulfillmentStatus),
		Fulfillments: fulfillments,
		Items:        items,
	}
}

// internal structs for mapping

// ordersData is the "data" member of the orders query.
type ordersData struct {
	Orders *struct {
		Edges []struct {
			Node orderNode `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

// orderNode represents the JSON structure of an order node.
type orderNode struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	Email                    string `json:"email"`
	DisplayFulfillmentStatus string `json:"displayFulfillmentStatus"`
	Fulfillments             []struct {
		TrackingInfo []struct {
			Number  string `json:"number"`
			URL     string `json:"url"`
			Company string `json:"company"`
		} `json:"trackingInfo"`
	} `json:"fulfillments"`
	LineItems struct {
		Edges []struct {
			Node struct {
				Name     string `json:"name"`
				Quantity int    `json:"quantity"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}
