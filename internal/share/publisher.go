package share

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/atotto/clipboard"

	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/mqtt"
)

// Publisher delivers a share message.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, msg Message) error
}

// MQTTPublisher publishes the message as JSON to a topic.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher creates a publisher for topic. The client is connected
// lazily on first use.
func NewMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic}
}

func (p *MQTTPublisher) Name() string { return "mqtt" }

func (p *MQTTPublisher) Publish(ctx context.Context, msg Message) error {
	if !p.client.IsConnected() {
		if err := p.client.Connect(ctx); err != nil {
			return err
		}
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal share message: %w", err)
	}
	return p.client.Publish(ctx, p.topic, payload)
}

// ClipboardPublisher copies the message line to the system clipboard.
type ClipboardPublisher struct {
	write func(string) error
}

// NewClipboardPublisher creates a publisher backed by the system clipboard.
func NewClipboardPublisher() *ClipboardPublisher {
	return &ClipboardPublisher{write: clipboard.WriteAll}
}

func (p *ClipboardPublisher) Name() string { return "clipboard" }

func (p *ClipboardPublisher) Publish(_ context.Context, msg Message) error {
	if clipboard.Unsupported {
		return errors.Newf("clipboard is not available on this system").
			Component("share").
			Category(errors.CategoryState).
			Build()
	}
	return p.write(msg.Line())
}

// WriterPublisher prints the message line, one per call.
type WriterPublisher struct {
	w io.Writer
}

// NewWriterPublisher writes messages to w.
func NewWriterPublisher(w io.Writer) *WriterPublisher {
	return &WriterPublisher{w: w}
}

func (p *WriterPublisher) Name() string { return "stdout" }

func (p *WriterPublisher) Publish(_ context.Context, msg Message) error {
	_, err := fmt.Fprintln(p.w, msg.Line())
	return err
}

// Chain tries each publisher in order and stops at the first success.
type Chain struct {
	publishers []Publisher
	log        logger.Logger
}

// NewChain creates a chain over publishers.
func NewChain(publishers ...Publisher) *Chain {
	return &Chain{
		publishers: publishers,
		log:        logger.Global().Module("share"),
	}
}

// Publish returns the name of the publisher that delivered msg.
func (c *Chain) Publish(ctx context.Context, msg Message) (string, error) {
	var errs []error
	for _, p := range c.publishers {
		err := p.Publish(ctx, msg)
		if err == nil {
			c.log.Info("sighting shared",
				logger.String("via", p.Name()),
				logger.String("sighting_id", msg.SightingID))
			return p.Name(), nil
		}
		c.log.Debug("share publisher failed, trying next",
			logger.String("publisher", p.Name()),
			logger.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.New(fmt.Errorf("no share method succeeded: %w", errors.Join(errs...))).
		Component("share").
		Category(errors.CategoryState).
		Build()
}
