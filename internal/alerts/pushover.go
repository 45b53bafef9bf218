package alerts

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/JaimeStill/drugx/pkg/remote"
)

type pushoverResponse struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Errors  []string `json:"errors"`
}

type pushover struct {
	client *remote.Client
	token  string
	user   string
}

// NewPushover creates a Notifier that posts to the Pushover messages API.
func NewPushover(client *remote.Client, token, user string) Notifier {
	return &pushover{
		client: client,
		token:  token,
		user:   user,
	}
}

func (p *pushover) Notify(ctx context.Context, alert Alert) error {
	form := url.Values{
		"token":   {p.token},
		"user":    {p.user},
		"title":   {alert.Title},
		"message": {alert.Message},
	}

	var resp pushoverResponse
	if err := p.client.PostForm(ctx, "/1/messages.json", form, &resp); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	if resp.Status != 1 {
		return fmt.Errorf("%w: status %d: %s", ErrDeliveryFailed, resp.Status, strings.Join(resp.Errors, "; "))
	}
	return nil
}
