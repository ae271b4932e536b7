package share

import (
	"context"
	"io"
	"log"
	"slices"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/tphakala/tickwatch/internal/errors"
)

// DefaultShoutrrrTimeout bounds one send across all service URLs.
const DefaultShoutrrrTimeout = 10 * time.Second

// ShoutrrrPublisher sends the message to every configured service URL
// (ntfy, Telegram, Discord, generic webhooks, ...).
type ShoutrrrPublisher struct {
	urls   []string
	sender *router.ServiceRouter
}

// NewShoutrrrPublisher validates urls and builds one sender for all of them.
func NewShoutrrrPublisher(urls []string, timeout time.Duration) (*ShoutrrrPublisher, error) {
	if len(urls) == 0 {
		return nil, errors.Newf("at least one share URL is required").
			Component("share").
			Category(errors.CategoryConfiguration).
			Build()
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		// the message can echo a URL with its token; telemetry scrubs it
		return nil, errors.New(err).
			Component("share").
			Category(errors.CategoryConfiguration).
			Context("url_count", len(urls)).
			Build()
	}
	if timeout <= 0 {
		timeout = DefaultShoutrrrTimeout
	}
	sender.Timeout = timeout
	sender.SetLogger(log.New(io.Discard, "", 0))
	return &ShoutrrrPublisher{urls: slices.Clone(urls), sender: sender}, nil
}

func (p *ShoutrrrPublisher) Name() string { return "shoutrrr" }

// Publish sends the share line titled with Title. The router applies its
// own timeout, so ctx is only checked before sending.
func (p *ShoutrrrPublisher) Publish(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := stypes.Params{}
	if msg.Title != "" {
		params.SetTitle(msg.Title)
	}
	var failed []error
	for _, err := range p.sender.Send(msg.Line(), &params) {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.New(errors.Join(failed...)).
		Component("share").
		Category(errors.CategoryNetwork).
		Context("failed", len(failed)).
		Context("url_count", len(p.urls)).
		Build()
}
