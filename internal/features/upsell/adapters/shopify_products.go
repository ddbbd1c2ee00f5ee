package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/upsell/domain"
)

// ShopifyProductAdapter implements ports.ProductProvider with the Admin GraphQL API.
type ShopifyProductAdapter struct{}

// NewShopifyProductAdapter creates a new ShopifyProductAdapter.
func NewShopifyProductAdapter() *ShopifyProductAdapter {
	return &ShopifyProductAdapter{}
}

// CollectionProducts returns up to limit display-ready products of the collection.
// An unknown collection yields no products.
func (a *ShopifyProductAdapter) CollectionProducts(ctx context.Context, admin shopify.Admin, collectionID string, limit int) ([]domain.Product, error) {
	resp, err := admin.Execute(ctx, shopify.CollectionProductsQuery, map[string]interface{}{
		"id":    collectionID,
		"first": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection products: %w", err)
	}

	var data collectionData
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode collection products: %w", err)
		}
	}

	if data.Collection == nil {
		return nil, nil
	}

	products := make([]domain.Product, 0, len(data.Collection.Products.Edges))
	for _, edge := range data.Collection.Products.Edges {
		if len(products) == limit {
			break
		}
		p := edge.Node
		var imageURL, amount, currency string
		if p.FeaturedImage != nil {
			imageURL = p.FeaturedImage.URL
		}
		if p.PriceRange != nil && p.PriceRange.MinVariantPrice != nil {
			amount = p.PriceRange.MinVariantPrice.Amount
			currency = p.PriceRange.MinVariantPrice.CurrencyCode
		}
		var storefrontURL string
		if p.OnlineStoreURL != nil {
			storefrontURL = *p.OnlineStoreURL
		}
		products = append(products, domain.NewProduct(p.Title, p.Handle, amount, currency, imageURL, storefrontURL))
	}
	return products, nil
}

// collectionData is the "data" member of the collection products query.
type collectionData struct {
	Collection *struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"collection"`
}

type productNode struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Handle        string `json:"handle"`
	FeaturedImage *struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
	PriceRange *struct {
		MinVariantPrice *struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"minVariantPrice"`
	} `json:"priceRangeV2"`
	OnlineStoreURL *string `json:"onlineStoreUrl"`
}
