package lootex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OrderBookClient handles HTTP requests to the Lootex order book API.
// The order book persists signed orders; nothing here touches the chain.
type OrderBookClient struct {
	host    string
	apiKey  string
	chainID ChainID
	client  *http.Client
}

// NewOrderBookClient creates a new order book client
func NewOrderBookClient(host, apiKey string, chainID ChainID) *OrderBookClient {
	return &OrderBookClient{
		host:    host,
		apiKey:  apiKey,
		chainID: chainID,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// doRequest performs an HTTP request
func (c *OrderBookClient) doRequest(method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	url := fmt.Sprintf("%s%s", c.host, endpoint)
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// decodeJSONResponse reads the response body, checks HTTP status, and decodes JSON
func (c *OrderBookClient) decodeJSONResponse(resp *http.Response, result interface{}) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyStr := string(bodyBytes)
		if bodyStr == "" {
			bodyStr = resp.Status
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		bodyStr := string(bodyBytes)
		if len(bodyStr) > 200 {
			bodyStr = bodyStr[:200] + "..."
		}
		return fmt.Errorf("failed to decode JSON response: %w (body: %s)", err, bodyStr)
	}

	return nil
}

// GetOrdersQuery filters an order listing request.
type GetOrdersQuery struct {
	Collection    string
	TokenID       string
	MarketplaceID int
	Page          int
	Limit         int
}

// GetOrdersResponse is the paginated order listing envelope.
type GetOrdersResponse struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result struct {
		List  []OrderRecord `json:"list"`
		Total int           `json:"total"`
	} `json:"result"`
}

// GetOrders fetches orders for a collection, optionally narrowed to one
// token id or one marketplace.
func (c *OrderBookClient) GetOrders(query GetOrdersQuery) (*GetOrdersResponse, error) {
	endpoint := fmt.Sprintf("/order?chain_id=%d&page=%d&limit=%d", c.chainID, query.Page, query.Limit)
	if query.Collection != "" {
		endpoint += fmt.Sprintf("&collection=%s", query.Collection)
	}
	if query.TokenID != "" {
		endpoint += fmt.Sprintf("&token_id=%s", query.TokenID)
	}
	if query.MarketplaceID > 0 {
		endpoint += fmt.Sprintf("&marketplace_id=%d", query.MarketplaceID)
	}

	resp, err := c.doRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result GetOrdersResponse
	if err := c.decodeJSONResponse(resp, &result); err != nil {
		return nil, err
	}

	if result.Code != 0 {
		return nil, &OrderBookError{Message: result.Msg}
	}

	return &result, nil
}

// GetOrderResponse wraps a single order record.
type GetOrderResponse struct {
	Code   int         `json:"code"`
	Msg    string      `json:"msg"`
	Result OrderRecord `json:"result"`
}

// GetOrder fetches one order by its hash.
func (c *OrderBookClient) GetOrder(orderHash string) (*GetOrderResponse, error) {
	endpoint := fmt.Sprintf("/order/%s", orderHash)
	resp, err := c.doRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result GetOrderResponse
	if err := c.decodeJSONResponse(resp, &result); err != nil {
		return nil, err
	}

	if result.Code != 0 {
		return nil, &OrderBookError{Message: result.Msg}
	}

	return &result, nil
}

// SubmitOrderResponse acknowledges an order submission.
type SubmitOrderResponse struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result struct {
		Hash string `json:"hash"`
	} `json:"result"`
}

// SubmitOrder persists a signed order to the order book.
func (c *OrderBookClient) SubmitOrder(record OrderRecord) (*SubmitOrderResponse, error) {
	resp, err := c.doRequest("POST", "/order", record)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result SubmitOrderResponse
	if err := c.decodeJSONResponse(resp, &result); err != nil {
		return nil, err
	}

	if result.Code != 0 {
		return nil, &OrderBookError{Message: result.Msg}
	}

	return &result, nil
}
