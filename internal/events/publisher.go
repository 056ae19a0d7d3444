// Package events publishes normalized quotes to NATS for downstream
// consumers. Publishing is fire-and-forget: a broker outage never fails a
// quote request.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"quote-backend/internal/providers"
)

// SubjectPrefix is the root of the quote event subject space; the provider id
// is appended per message.
const SubjectPrefix = "quotes.normalized"

// Publisher pushes successful quotes onto NATS. A nil Publisher is a no-op,
// so callers never branch on whether eventing is configured.
type Publisher struct {
	nc  *nats.Conn
	log *logrus.Entry
}

// NewPublisher connects to NATS. An empty URL disables publishing and returns
// a nil publisher.
func NewPublisher(url string, log *logrus.Logger) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("quote-backend"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.WithField("url", url).Info("NATS quote publisher connected")
	return &Publisher{
		nc:  nc,
		log: log.WithField("component", "quote_publisher"),
	}, nil
}

// PublishQuote emits one normalized quote on quotes.normalized.<provider>.
// Errors are logged, never returned.
func (p *Publisher) PublishQuote(quote *providers.NormalizedQuote) {
	if p == nil || quote == nil {
		return
	}

	data, err := json.Marshal(quote)
	if err != nil {
		p.log.WithError(err).Warn("failed to encode quote event")
		return
	}

	subject := SubjectPrefix + "." + quote.Provider
	if err := p.nc.Publish(subject, data); err != nil {
		p.log.WithFields(logrus.Fields{
			"subject": subject,
		}).WithError(err).Warn("failed to publish quote event")
	}
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.nc.Close()
}
