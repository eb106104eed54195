// File: internal/services/engine/citations.go
package engine

import (
	"strings"

	"github.com/lexisg/go-lexi/internal/domain"
	"github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// CitationExtractor turns retrieval matches into citations an assistant
// message can carry. Each case-law chunk is indexed with the quoted text,
// its source document, an external link, and a paragraph locator.
type CitationExtractor struct {
	config *Config
	logger Logger
}

func NewCitationExtractor(config *Config, logger Logger) *CitationExtractor {
	return &CitationExtractor{config: config, logger: logger}
}

// Extract builds citations from matches, deduplicated by source+paragraph
// and capped at MaxCitations. Matches without a resolvable link or quoted
// text are skipped; a citation must always validate before attachment.
func (e *CitationExtractor) Extract(matches []*pinecone.ScoredVector) []domain.Citation {
	var citations []domain.Citation
	seen := make(map[string]bool)

	for _, match := range matches {
		if match == nil || match.Vector == nil || match.Vector.Metadata == nil {
			continue
		}

		c := domain.Citation{
			Text:      metadataString(match.Vector.Metadata, "text"),
			Source:    metadataString(match.Vector.Metadata, "source_file"),
			Link:      metadataString(match.Vector.Metadata, "link"),
			Paragraph: metadataString(match.Vector.Metadata, "paragraph"),
		}

		if c.Link == "" && c.Source != "" && e.config.DocumentBaseURL != "" {
			c.Link = strings.TrimSuffix(e.config.DocumentBaseURL, "/") + "/" + c.Source
		}

		if err := c.Validate(); err != nil {
			e.logger.Debug("skipping incomplete citation", "source", c.Source, "error", err)
			continue
		}

		key := c.Source + "|" + c.Paragraph
		if seen[key] {
			continue
		}
		seen[key] = true

		citations = append(citations, c)
		if len(citations) >= e.config.MaxCitations {
			break
		}
	}

	e.logger.Info("citations extracted", "matches_count", len(matches), "citations_count", len(citations))
	return citations
}

// metadataString safely pulls a string field out of a match's metadata.
func metadataString(metadata *pinecone.Metadata, key string) string {
	if metadata == nil || metadata.Fields == nil {
		return ""
	}
	value, ok := metadata.Fields[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(value.GetStringValue())
}
