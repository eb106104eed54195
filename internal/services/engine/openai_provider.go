// File: internal/services/engine/openai_provider.go
package engine

import (
	"context"
	"strings"

	"github.com/lexisg/go-lexi/internal/domain"
	"github.com/lexisg/go-lexi/internal/services/retrieval"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider answers legal questions with a retrieval-augmented
// pipeline: embed the question, query the case-law index, prompt the model
// with the retrieved excerpts, and attach citations from the same matches.
type OpenAIProvider struct {
	config          *Config
	embeddingClient *openai.Client
	llmClient       *openai.Client
	retriever       retrieval.Provider
	prompts         *PromptBuilder
	citations       *CitationExtractor
	logger          Logger
}

func NewOpenAIProvider(config *Config, retriever retrieval.Provider, logger Logger) (*OpenAIProvider, error) {
	if config == nil {
		return nil, NewConfigError("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}
	if retriever == nil {
		return nil, NewConfigError("retrieval provider is required")
	}

	llmConfig := openai.DefaultConfig(config.LLMKey)
	if config.LLMBaseURL != "" {
		llmConfig.BaseURL = config.LLMBaseURL
	}
	llmClient := openai.NewClientWithConfig(llmConfig)

	embeddingConfig := openai.DefaultConfig(config.EmbeddingKey)
	if config.EmbeddingBaseURL != "" {
		embeddingConfig.BaseURL = config.EmbeddingBaseURL
	}
	embeddingClient := openai.NewClientWithConfig(embeddingConfig)

	return &OpenAIProvider{
		config:          config,
		embeddingClient: embeddingClient,
		llmClient:       llmClient,
		retriever:       retriever,
		prompts:         NewPromptBuilder(config, logger),
		citations:       NewCitationExtractor(config, logger),
		logger:          logger,
	}, nil
}

// Ask runs the full pipeline under the configured finite timeout. On any
// failure the caller receives a typed, recoverable error and no partial
// answer.
func (p *OpenAIProvider) Ask(ctx context.Context, question string, history []domain.Message) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, NewValidationError("ask", "question cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	embedding, err := p.createEmbedding(ctx, question)
	if err != nil {
		return nil, err
	}

	matches, err := p.retriever.QuerySimilar(ctx, embedding, p.config.RetrievalTopK)
	if err != nil {
		p.logger.Error("case-law retrieval failed", "error", err)
		return nil, WrapCallError("retrieval", err)
	}

	contextJSON := p.prompts.BuildContext(matches)
	prompt := p.prompts.BuildPrompt(contextJSON, question, history)

	answerText, err := p.getCompletion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Text:      answerText,
		Citations: p.citations.Extract(matches),
	}

	p.logger.Info("question answered",
		"answer_length", len(answer.Text),
		"citations_count", len(answer.Citations))
	return answer, nil
}

func (p *OpenAIProvider) createEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.embeddingClient.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.config.EmbeddingModel),
	})
	if err != nil {
		p.logger.Error("embedding call failed", "error", err)
		return nil, WrapCallError("embedding", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, NewUnavailableError("embedding", "empty embedding response", nil)
	}
	return resp.Data[0].Embedding, nil
}

func (p *OpenAIProvider) getCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := p.llmClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.config.Temperature,
	})
	if err != nil {
		p.logger.Error("completion call failed", "error", err)
		return "", WrapCallError("completion", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", NewUnavailableError("completion", "empty completion response", nil)
	}

	answer := resp.Choices[0].Message.Content
	if p.config.MaxAnswerChars > 0 && len(answer) > p.config.MaxAnswerChars {
		answer = answer[:p.config.MaxAnswerChars]
	}
	return answer, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	return p.retriever.HealthCheck(ctx)
}
