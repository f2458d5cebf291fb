// Package embeddings provides the text embedders behind the optional
// semantic fact index. When no embedder is configured the guide runs
// fully deterministic and never touches this package.
package embeddings

import (
	"context"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder generates vector embeddings for fact and query texts.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name returns the identifier of the embedding model.
	Name() string
}

// ToChromemFunc adapts an Embedder to chromem-go, which embeds one text
// at a time.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		results, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, nil
		}
		return results[0], nil
	}
}
