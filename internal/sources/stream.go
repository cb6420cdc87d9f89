package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"TrustTrace/internal/domain/models"
	domrepo "TrustTrace/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// FeedClient implements a TradeFeed backed by a trade-print WebSocket feed.
type FeedClient struct {
	apiKey         string
	websocketURL   string
	identifiers    []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// NewFeedClient creates a TradeFeed subscribed to the given identifiers.
func NewFeedClient(apiKey, websocketURL string, identifiers []string, reconnectDelay, pingInterval time.Duration) domrepo.TradeFeed {
	return &FeedClient{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		identifiers:    identifiers,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *FeedClient) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("tradefeed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("tradefeed: connected")
	return nil
}

// Subscribe subscribes to the configured identifiers.
func (c *FeedClient) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("tradefeed not connected")
	}
	for _, id := range c.identifiers {
		msg := map[string]string{"type": "subscribe", "identifier": id}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", id, err)
		}
		log.Printf("tradefeed: subscribed %s", id)
	}
	return nil
}

type feedPrint struct {
	ID string  `json:"id"`
	P  float64 `json:"p"`
	Y  float64 `json:"y"`
	V  float64 `json:"v"`
	T  int64   `json:"t"` // ms
}

type feedMessage struct {
	Type string      `json:"type"`
	Data []feedPrint `json:"data"`
}

// Read streams TradePrint events and errors.
func (c *FeedClient) Read(ctx context.Context) (<-chan *models.TradePrint, <-chan error) {
	prints := make(chan *models.TradePrint, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(prints)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("tradefeed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("tradefeed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-print frames
					continue
				}
				if m.Type != "print" {
					continue
				}
				for _, d := range m.Data {
					p := &models.TradePrint{
						Identifier: d.ID,
						Timestamp:  d.T / 1000,
						Price:      d.P,
						Yield:      d.Y,
						Volume:     d.V,
					}
					select {
					case prints <- p:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return prints, errs
}

// Reconnect closes and reconnects.
func (c *FeedClient) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *FeedClient) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *FeedClient) IsConnected() bool { return c.connected }
