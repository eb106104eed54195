// File: internal/services/citation/resolver.go
package citation

import (
	"net/url"
	"strings"

	"github.com/lexisg/go-lexi/internal/domain"
)

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Target is a validated citation destination: the document URL plus an
// optional paragraph fragment a client can scroll to.
type Target struct {
	URL       string `json:"url"`
	Paragraph string `json:"paragraph,omitempty"`
	Fragment  string `json:"fragment,omitempty"`
}

// Resolver turns stored citations into navigable targets. A citation with
// a missing or malformed link resolves to an error, never a panic; callers
// surface the failure to the user and carry on.
type Resolver struct {
	logger Logger
}

func NewResolver(logger Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve validates the citation's link and builds its navigation target.
func (r *Resolver) Resolve(c *domain.Citation) (*Target, error) {
	if c == nil {
		return nil, newResolveError(0, "", "citation is nil")
	}

	link := strings.TrimSpace(c.Link)
	if link == "" {
		r.logger.Warn("citation has no link", "citation_id", c.ID, "source", c.Source)
		return nil, newResolveError(c.ID, c.Link, "link is empty")
	}

	parsed, err := url.Parse(link)
	if err != nil {
		r.logger.Warn("citation link is malformed", "citation_id", c.ID, "link", link, "error", err)
		return nil, newResolveError(c.ID, link, "link is not a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		r.logger.Warn("citation link has unsupported scheme",
			"citation_id", c.ID, "link", link, "scheme", parsed.Scheme)
		return nil, newResolveError(c.ID, link, "link must be an absolute http or https URL")
	}
	if parsed.Host == "" {
		return nil, newResolveError(c.ID, link, "link has no host")
	}

	target := &Target{
		URL:       parsed.String(),
		Paragraph: strings.TrimSpace(c.Paragraph),
	}
	if target.Paragraph != "" && parsed.Fragment == "" {
		target.Fragment = paragraphFragment(target.Paragraph)
	} else {
		target.Fragment = parsed.Fragment
	}

	return target, nil
}

// ResolveLink validates a raw link without a stored citation behind it.
func (r *Resolver) ResolveLink(link, paragraph string) (*Target, error) {
	return r.Resolve(&domain.Citation{Link: link, Paragraph: paragraph})
}

// paragraphFragment normalizes a paragraph label into a URL fragment,
// e.g. "Para 47" -> "para-47".
func paragraphFragment(paragraph string) string {
	fields := strings.Fields(strings.ToLower(paragraph))
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, "-")
}
