// File: internal/services/engine/prompt.go
package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lexisg/go-lexi/internal/domain"
	"github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// contextEntry is one normalized case-law chunk fed to the model.
type contextEntry struct {
	ChunkID    string `json:"chunk_id"`
	SourceFile string `json:"source_file"`
	Paragraph  string `json:"paragraph,omitempty"`
	Text       string `json:"text"`
	Similarity string `json:"similarity"`
}

// PromptBuilder assembles the retrieval context and the final legal-research
// prompt.
type PromptBuilder struct {
	config *Config
	logger Logger
}

func NewPromptBuilder(config *Config, logger Logger) *PromptBuilder {
	return &PromptBuilder{config: config, logger: logger}
}

// BuildContext converts retrieval matches into a JSON array of context
// entries, highest similarity first.
func (p *PromptBuilder) BuildContext(matches []*pinecone.ScoredVector) string {
	sort.SliceStable(matches, func(i, j int) bool {
		var is, js float32
		if matches[i] != nil {
			is = matches[i].Score
		}
		if matches[j] != nil {
			js = matches[j].Score
		}
		return is > js
	})

	entries := make([]contextEntry, 0, len(matches))
	for i, match := range matches {
		if match == nil || match.Vector == nil || match.Vector.Metadata == nil {
			continue
		}
		entry := contextEntry{
			ChunkID:    match.Vector.Id,
			SourceFile: metadataString(match.Vector.Metadata, "source_file"),
			Paragraph:  metadataString(match.Vector.Metadata, "paragraph"),
			Text:       metadataString(match.Vector.Metadata, "text"),
			Similarity: fmt.Sprintf("%.6f", match.Score),
		}
		if entry.ChunkID == "" {
			entry.ChunkID = fmt.Sprintf("C%03d", i+1)
		}
		if entry.Text != "" {
			entries = append(entries, entry)
		}
	}

	contextJSON, err := json.Marshal(entries)
	if err != nil {
		p.logger.Error("context serialization failed", "error", err)
		return "[]"
	}

	p.logger.Debug("retrieval context built", "entries_count", len(entries))
	return string(contextJSON)
}

// BuildPrompt generates the final prompt from the context JSON, the prior
// turns, and the current question.
func (p *PromptBuilder) BuildPrompt(contextJSON, question string, history []domain.Message) string {
	if strings.TrimSpace(contextJSON) == "" {
		contextJSON = "[]"
	}

	var prior strings.Builder
	for _, m := range trimHistory(history, p.config.HistoryTurns) {
		fmt.Fprintf(&prior, "%s: %s\n", m.MessageType, m.Content)
	}

	return fmt.Sprintf(`You are a legal research assistant. Answer questions using only the case-law excerpts provided below.
# Context
%s
# Prior conversation
%s
# Question
%s
# Instructions
- Ground every claim in the context; cite the source document and paragraph when you rely on an excerpt.
- Return your answer in valid Markdown.
- If the context does not support an answer, state clearly what cannot be answered.
- Be precise and concise; legal accuracy over completeness.
`, contextJSON, prior.String(), question)
}

// trimHistory keeps the most recent turns, in chronological order.
func trimHistory(history []domain.Message, maxTurns int) []domain.Message {
	if maxTurns <= 0 || len(history) <= maxTurns {
		return history
	}
	return history[len(history)-maxTurns:]
}
