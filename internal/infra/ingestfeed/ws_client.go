// Package ingestfeed subscribes to the ingestion service's websocket event
// feed. Each committed scrape batch produces one event, which drives the
// instant-alert trigger path.
package ingestfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dealsight/dealsight/internal/domain"
)

type WSFactory struct {
	url         string
	dialer      *websocket.Dialer
	readTimeout time.Duration
	logger      *zap.Logger
}

func NewWSFactory(url string, readTimeout time.Duration, logger *zap.Logger) *WSFactory {
	return &WSFactory{
		url: url,
		dialer: &websocket.Dialer{
			Proxy: http.ProxyFromEnvironment,
		},
		readTimeout: readTimeout,
		logger:      logger,
	}
}

func (f *WSFactory) Connect(ctx context.Context) (domain.IngestFeedClient, error) {
	f.logger.Info("ingest feed connect start", zap.String("url", f.url))
	conn, _, err := f.dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		f.logger.Error("ingest feed connect failed", zap.String("url", f.url), zap.Error(err))
		return nil, err
	}
	f.logger.Info("ingest feed connect success", zap.String("url", f.url))
	return &WSClient{conn: conn, readTimeout: f.readTimeout, logger: f.logger}, nil
}

type WSClient struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	logger      *zap.Logger
}

type wsEvent struct {
	EventType string `json:"event_type"`
	Source    string `json:"source"`
	Count     int    `json:"count"`
}

// Receive blocks until the next ingestion event arrives. Frames that are
// not listings_ingested events decode to nil without error so the caller
// can just keep reading.
func (c *WSClient) Receive(ctx context.Context) (*domain.IngestEvent, error) {
	if c.readTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	event, err := decodeEvent(data)
	if err != nil {
		c.logger.Debug("ingest feed message ignored", zap.Error(err))
		return nil, nil
	}
	return event, nil
}

func (c *WSClient) Close() error {
	c.logger.Info("ingest feed close")
	return c.conn.Close()
}

func decodeEvent(data []byte) (*domain.IngestEvent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	var payload wsEvent
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("decode ingest event: %w", err)
	}
	if payload.EventType != domain.EventListingsIngested {
		return nil, nil
	}
	return &domain.IngestEvent{
		EventType: payload.EventType,
		Source:    payload.Source,
		Count:     payload.Count,
	}, nil
}
