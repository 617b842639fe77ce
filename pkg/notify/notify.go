// Package notify sends best-effort downstream notifications once a
// record has been fully created.
package notify

import (
	"context"
	"io"
	"log"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/rotisserie/eris"
)

// Notifier announces completed records to interested parties.
type Notifier interface {
	RecordCreated(ctx context.Context, plantID, name, requester string) error
}

// ShoutrrrNotifier sends via nicholas-fedor/shoutrrr service URLs.
type ShoutrrrNotifier struct {
	sender *router.ServiceRouter
}

// New builds a notifier from shoutrrr service URLs. An empty URL list
// yields a notifier that silently does nothing.
func New(urls []string, timeout time.Duration) (*ShoutrrrNotifier, error) {
	if len(urls) == 0 {
		return &ShoutrrrNotifier{}, nil
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, eris.Wrap(err, "notify: create sender")
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	return &ShoutrrrNotifier{sender: sender}, nil
}

func (n *ShoutrrrNotifier) RecordCreated(_ context.Context, plantID, name, requester string) error {
	if n.sender == nil {
		return nil
	}

	body := "Plant record created: " + name + " (" + plantID + ")"
	if requester != "" {
		body += ", requested by " + requester
	}
	params := stypes.Params{}
	params.SetTitle("New plant record")

	for _, err := range n.sender.Send(body, &params) {
		if err != nil {
			return eris.Wrap(err, "notify: send")
		}
	}
	return nil
}
