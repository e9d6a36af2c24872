package domain

import "context"

// IngestEvent announces that the ingestion pipeline committed a batch of
// new listings from one source marketplace.
type IngestEvent struct {
	EventType string
	Source    string
	Count     int
}

const EventListingsIngested = "listings_ingested"

type IngestFeedClient interface {
	Receive(ctx context.Context) (*IngestEvent, error)
	Close() error
}

type IngestFeedFactory interface {
	Connect(ctx context.Context) (IngestFeedClient, error)
}
