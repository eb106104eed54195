// File: internal/domain/citation.go
package domain

import (
	"errors"
	"strings"
)

// Citation is a quoted excerpt from a source document attached to an
// assistant message. Once attached it is never updated; the only way a
// citation disappears is the cascade delete of its conversation.
type Citation struct {
	ID        uint   `json:"-" gorm:"primarykey"`
	MessageID uint   `json:"-" gorm:"not null;index"`
	Position  int    `json:"-" gorm:"not null"` // order within the owning message
	Text      string `json:"text" gorm:"not null"`
	Source    string `json:"source" gorm:"not null"` // originating document, e.g. "Dani_Devi_v_Pritam_Singh.pdf"
	Link      string `json:"link" gorm:"not null"`   // external URI to the document
	Paragraph string `json:"paragraph,omitempty"`    // optional locator, e.g. "Para 7"
}

// Validate checks the invariants a citation must satisfy before it may be
// attached to a message.
func (c *Citation) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return errors.New("citation text cannot be empty")
	}
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("citation source cannot be empty")
	}
	if strings.TrimSpace(c.Link) == "" {
		return errors.New("citation link cannot be empty")
	}
	return nil
}
