// File: internal/services/retrieval/client.go
package retrieval

import (
	"context"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// ClientService queries the Pinecone case-law index.
type ClientService struct {
	config *Config
	conn   *pinecone.IndexConnection
	retry  *RetryService
	logger Logger
}

func NewClientService(config *Config, logger Logger) (*ClientService, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: config.APIKey})
	if err != nil {
		return nil, NewConnectionError("failed to create pinecone client", err)
	}

	conn, err := client.Index(pinecone.NewIndexConnParams{
		Host:      config.IndexHost,
		Namespace: config.Namespace,
	})
	if err != nil {
		return nil, NewConnectionError("failed to connect to index", err)
	}

	logger.Info("pinecone index connection established",
		"host", config.IndexHost,
		"namespace", config.Namespace)

	return &ClientService{
		config: config,
		conn:   conn,
		retry:  NewRetryService(config, logger),
		logger: logger,
	}, nil
}

// QuerySimilar returns the topK nearest case-law chunks for an embedding,
// metadata included. Transient failures are retried.
func (c *ClientService) QuerySimilar(ctx context.Context, embedding []float32, topK int) ([]*pinecone.ScoredVector, error) {
	if len(embedding) == 0 {
		return nil, NewOperationError("embedding cannot be empty", nil)
	}
	if topK <= 0 {
		topK = 1
	}

	var matches []*pinecone.ScoredVector
	err := c.retry.RetryWithTimeout(ctx, func(ctx context.Context) error {
		res, err := c.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
			Vector:          embedding,
			TopK:            uint32(topK),
			IncludeMetadata: true,
		})
		if err != nil {
			return NewOperationError("similarity query failed", err)
		}
		matches = res.Matches
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("similarity search completed", "results_count", len(matches))
	return matches, nil
}

// HealthCheck verifies the index connection by fetching its stats.
func (c *ClientService) HealthCheck(ctx context.Context) error {
	if _, err := c.conn.DescribeIndexStats(ctx); err != nil {
		return NewConnectionError("index stats check failed", err)
	}
	return nil
}

func (c *ClientService) Close() error {
	return c.conn.Close()
}
