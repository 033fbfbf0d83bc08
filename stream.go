package lootex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// WebSocket endpoint
	DefaultWSEndpoint = "wss://ws.lootex.io"

	// Heartbeat interval
	HeartbeatInterval = 30 * time.Second

	// Reconnect settings
	DefaultReconnectInterval    = 5 * time.Second
	DefaultMaxReconnectAttempts = 10
)

// WebSocket action types
const (
	ActionHeartbeat   = "HEARTBEAT"
	ActionSubscribe   = "SUBSCRIBE"
	ActionUnsubscribe = "UNSUBSCRIBE"
)

// WebSocket channel types
const (
	ChannelOrderCreated   = "order.created"
	ChannelOrderFilled    = "order.filled"
	ChannelOrderCancelled = "order.cancelled"
)

// SubscribeMessage represents a subscription message for a collection
type SubscribeMessage struct {
	Action     string `json:"action"`
	Channel    string `json:"channel"`
	Collection string `json:"collection"`
	ChainID    int64  `json:"chainId"`
}

// HeartbeatMessage represents a heartbeat message
type HeartbeatMessage struct {
	Action string `json:"action"`
}

// OrderEvent represents an order lifecycle message from the stream.
// Filled events carry the executed fraction; cancelled events only the
// hash.
type OrderEvent struct {
	EventType    string `json:"eventType"`
	OrderHash    string `json:"orderHash"`
	Collection   string `json:"collection"`
	TokenID      string `json:"tokenId"`
	ChainID      int64  `json:"chainId"`
	Maker        string `json:"maker"`
	Taker        string `json:"taker"`
	PerUnitPrice string `json:"perUnitPrice"`
	FilledUnits  string `json:"filledUnits"`
	TotalUnits   string `json:"totalUnits"`
	TxHash       string `json:"txHash"`
	CreatedAt    int64  `json:"createdAt"`
}

// StreamEventHandler is a callback function for handling stream events
type StreamEventHandler func(messageType int, data []byte)

// StreamErrorHandler is a callback function for handling stream errors
type StreamErrorHandler func(err error)

// StreamConfig holds configuration for the stream client
type StreamConfig struct {
	Endpoint             string
	APIKey               string
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int
	OnMessage            StreamEventHandler
	OnError              StreamErrorHandler
	OnConnect            func()
	OnDisconnect         func()
}

// StreamClient is the WebSocket client for order book events
type StreamClient struct {
	config           StreamConfig
	conn             *websocket.Conn
	mu               sync.RWMutex
	isConnected      bool
	subscriptions    map[string]interface{} // Track active subscriptions for reconnection
	subMu            sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	heartbeatTicker  *time.Ticker
	reconnectAttempt int
}

// NewStreamClient creates a new stream client
func NewStreamClient(config StreamConfig) *StreamClient {
	if config.Endpoint == "" {
		config.Endpoint = DefaultWSEndpoint
	}
	if config.ReconnectInterval == 0 {
		config.ReconnectInterval = DefaultReconnectInterval
	}
	if config.MaxReconnectAttempts == 0 {
		config.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}

	return &StreamClient{
		config:        config,
		subscriptions: make(map[string]interface{}),
	}
}

// Connect establishes a WebSocket connection
func (sc *StreamClient) Connect(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.isConnected {
		return nil
	}

	sc.ctx, sc.cancel = context.WithCancel(ctx)

	u, err := url.Parse(sc.config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to parse WebSocket endpoint: %w", err)
	}
	q := u.Query()
	q.Set("apikey", sc.config.APIKey)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(sc.ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to WebSocket: %w", err)
	}

	sc.conn = conn
	sc.isConnected = true
	sc.reconnectAttempt = 0

	sc.startHeartbeat()
	go sc.readLoop()

	if sc.config.OnConnect != nil {
		go sc.config.OnConnect()
	}

	return nil
}

// Disconnect closes the WebSocket connection
func (sc *StreamClient) Disconnect() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.isConnected {
		return nil
	}

	sc.isConnected = false

	if sc.cancel != nil {
		sc.cancel()
	}
	if sc.heartbeatTicker != nil {
		sc.heartbeatTicker.Stop()
	}

	var err error
	if sc.conn != nil {
		err = sc.conn.Close()
		sc.conn = nil
	}

	if sc.config.OnDisconnect != nil {
		go sc.config.OnDisconnect()
	}

	return err
}

// IsConnected returns the current connection status
func (sc *StreamClient) IsConnected() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.isConnected
}

// Subscribe subscribes to a channel for one collection
func (sc *StreamClient) Subscribe(channel, collection string, chainID int64) error {
	msg := SubscribeMessage{
		Action:     ActionSubscribe,
		Channel:    channel,
		Collection: collection,
		ChainID:    chainID,
	}

	if err := sc.sendMessage(msg); err != nil {
		return err
	}

	sc.subMu.Lock()
	key := fmt.Sprintf("%s:%d:%s", channel, chainID, collection)
	sc.subscriptions[key] = msg
	sc.subMu.Unlock()

	return nil
}

// Unsubscribe unsubscribes from a channel for one collection
func (sc *StreamClient) Unsubscribe(channel, collection string, chainID int64) error {
	msg := SubscribeMessage{
		Action:     ActionUnsubscribe,
		Channel:    channel,
		Collection: collection,
		ChainID:    chainID,
	}

	if err := sc.sendMessage(msg); err != nil {
		return err
	}

	sc.subMu.Lock()
	key := fmt.Sprintf("%s:%d:%s", channel, chainID, collection)
	delete(sc.subscriptions, key)
	sc.subMu.Unlock()

	return nil
}

// SubscribeOrderCreated subscribes to new order events for a collection
func (sc *StreamClient) SubscribeOrderCreated(collection string, chainID int64) error {
	return sc.Subscribe(ChannelOrderCreated, collection, chainID)
}

// SubscribeOrderFilled subscribes to fill events for a collection
func (sc *StreamClient) SubscribeOrderFilled(collection string, chainID int64) error {
	return sc.Subscribe(ChannelOrderFilled, collection, chainID)
}

// SubscribeOrderCancelled subscribes to cancellation events for a collection
func (sc *StreamClient) SubscribeOrderCancelled(collection string, chainID int64) error {
	return sc.Subscribe(ChannelOrderCancelled, collection, chainID)
}

// sendMessage sends a message over the WebSocket connection
func (sc *StreamClient) sendMessage(msg interface{}) error {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if !sc.isConnected || sc.conn == nil {
		return fmt.Errorf("WebSocket not connected")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := sc.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// startHeartbeat starts the heartbeat ticker
func (sc *StreamClient) startHeartbeat() {
	sc.heartbeatTicker = time.NewTicker(HeartbeatInterval)

	go func() {
		for {
			select {
			case <-sc.heartbeatTicker.C:
				if err := sc.sendMessage(HeartbeatMessage{Action: ActionHeartbeat}); err != nil {
					if sc.config.OnError != nil {
						sc.config.OnError(fmt.Errorf("heartbeat failed: %w", err))
					}
				}
			case <-sc.ctx.Done():
				return
			}
		}
	}()
}

// readLoop continuously reads messages from the WebSocket
func (sc *StreamClient) readLoop() {
	for {
		select {
		case <-sc.ctx.Done():
			return
		default:
			sc.mu.RLock()
			conn := sc.conn
			sc.mu.RUnlock()

			if conn == nil {
				return
			}

			messageType, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					sc.handleDisconnect()
					return
				}
				if sc.config.OnError != nil {
					sc.config.OnError(fmt.Errorf("read error: %w", err))
				}
				sc.handleDisconnect()
				return
			}

			if sc.config.OnMessage != nil {
				sc.config.OnMessage(messageType, data)
			}
		}
	}
}

// handleDisconnect handles disconnection and attempts reconnection
func (sc *StreamClient) handleDisconnect() {
	sc.mu.Lock()
	wasConnected := sc.isConnected
	sc.isConnected = false
	if sc.heartbeatTicker != nil {
		sc.heartbeatTicker.Stop()
	}
	sc.mu.Unlock()

	if wasConnected && sc.config.OnDisconnect != nil {
		sc.config.OnDisconnect()
	}

	go sc.attemptReconnect()
}

// attemptReconnect attempts to reconnect to the WebSocket
func (sc *StreamClient) attemptReconnect() {
	for sc.reconnectAttempt < sc.config.MaxReconnectAttempts {
		sc.reconnectAttempt++

		select {
		case <-sc.ctx.Done():
			return
		case <-time.After(sc.config.ReconnectInterval):
		}

		ctx := context.Background()
		if err := sc.Connect(ctx); err != nil {
			if sc.config.OnError != nil {
				sc.config.OnError(fmt.Errorf("reconnect attempt %d failed: %w", sc.reconnectAttempt, err))
			}
			continue
		}

		sc.resubscribe()
		return
	}

	if sc.config.OnError != nil {
		sc.config.OnError(fmt.Errorf("max reconnect attempts (%d) reached", sc.config.MaxReconnectAttempts))
	}
}

// resubscribe resubscribes to all tracked subscriptions
func (sc *StreamClient) resubscribe() {
	sc.subMu.RLock()
	defer sc.subMu.RUnlock()

	for _, msg := range sc.subscriptions {
		if err := sc.sendMessage(msg); err != nil {
			if sc.config.OnError != nil {
				sc.config.OnError(fmt.Errorf("resubscribe failed: %w", err))
			}
		}
	}
}

// Subscriptions returns a list of current subscription keys
func (sc *StreamClient) Subscriptions() []string {
	sc.subMu.RLock()
	defer sc.subMu.RUnlock()

	subs := make([]string, 0, len(sc.subscriptions))
	for key := range sc.subscriptions {
		subs = append(subs, key)
	}
	return subs
}
