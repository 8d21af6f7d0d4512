package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/thinktars/playground/internal/config"
)

// LinkBuilder builds wa.me-style deep links with a pre-filled message. The
// engine never reads a response back from the channel; the client opens the
// link in a new browsing context and success is assumed.
type LinkBuilder struct {
	baseURL string
	number  string
}

func NewLinkBuilder(cfg config.HandoffConfig) *LinkBuilder {
	return &LinkBuilder{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		number:  cfg.WhatsAppNumber,
	}
}

// Build returns the deep link for the given pre-filled message.
func (b *LinkBuilder) Build(message string) string {
	return fmt.Sprintf("%s/%s?text=%s", b.baseURL, b.number, url.QueryEscape(message))
}
