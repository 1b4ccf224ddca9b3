package pkg

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSPublisher adapts a NATS connection to the events.Publisher
// interface. Meal-plan mutations publish through it on a best-effort
// basis; a failed publish never fails the originating request.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	return p.conn.Publish(topic, msg)
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
