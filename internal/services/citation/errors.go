// File: internal/services/citation/errors.go
package citation

import "fmt"

// ResolveError describes why a citation link could not be resolved.
type ResolveError struct {
	CitationID uint
	Link       string
	Message    string
}

func (e *ResolveError) Error() string {
	if e.CitationID != 0 {
		return fmt.Sprintf("citation %d: %s (link=%q)", e.CitationID, e.Message, e.Link)
	}
	return fmt.Sprintf("citation: %s (link=%q)", e.Message, e.Link)
}

func newResolveError(citationID uint, link, message string) *ResolveError {
	return &ResolveError{CitationID: citationID, Link: link, Message: message}
}
