package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrGraphQL wraps errors reported in the "errors" member of a GraphQL response.
var ErrGraphQL = errors.New("shopify graphql error")

// Admin is the capability to query a shop's Admin GraphQL API.
type Admin interface {
	// Execute runs a query or mutation and returns its raw data payload.
	Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error)
}

// GraphQLRequest represents a GraphQL request.
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error.
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// Client is an Admin API client bound to one shop and access token.
type Client struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	baseURL     string
	httpClient  *http.Client
}

// NewClient creates a new Shopify GraphQL client talking to https://<shopDomain>.
func NewClient(shopDomain, accessToken, apiVersion string, httpClient *http.Client) *Client {
	return NewClientAt("", shopDomain, accessToken, apiVersion, httpClient)
}

// NewClientAt creates a client that sends requests to baseURL instead of the shop's own host.
// An empty baseURL behaves like NewClient.
func NewClientAt(baseURL, shopDomain, accessToken, apiVersion string, httpClient *http.Client) *Client {
	return &Client{
		shopDomain:  NormalizeShopDomain(shopDomain),
		accessToken: accessToken,
		apiVersion:  apiVersion,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  httpClient,
	}
}

// ShopDomain returns the shop this client is bound to.
func (c *Client) ShopDomain() string {
	return c.shopDomain
}

func (c *Client) endpoint() string {
	base := c.baseURL
	if base == "" {
		base = "https://" + c.shopDomain
	}
	return fmt.Sprintf("%s/admin/api/%s/graphql.json", base, c.apiVersion)
}

// Execute executes a GraphQL query/mutation.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	jsonData, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify API error: status %d", resp.StatusCode)
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(body, &graphQLResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(graphQLResp.Errors) > 0 {
		messages := make([]string, len(graphQLResp.Errors))
		for i, e := range graphQLResp.Errors {
			messages[i] = e.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(messages, "; "))
	}

	return &graphQLResp, nil
}

// Factory builds shop-scoped clients that share one HTTP client.
type Factory struct {
	APIVersion string
	HTTPClient *http.Client
	// BaseURL overrides the shop host for every client. Empty in production.
	BaseURL string
}

// ForShop returns an Admin bound to shop using accessToken.
func (f Factory) ForShop(shop, accessToken string) Admin {
	return NewClientAt(f.BaseURL, shop, accessToken, f.APIVersion, f.HTTPClient)
}
