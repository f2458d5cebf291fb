package retrieval

import (
	"context"
	"fmt"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/SRINIVASINDIA/Local-guide/internal/embeddings"
	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
)

const factCollection = "facts"

// SemanticIndex is an optional in-memory vector index over fact texts.
// It only ever returns fact identifiers, so anything it surfaces still
// resolves against the store and stays grounded. It is rebuilt alongside
// the store on every reload.
type SemanticIndex struct {
	collection *chromem.Collection
}

// BuildSemanticIndex embeds every fact of the store into a fresh
// chromem collection.
func BuildSemanticIndex(ctx context.Context, ks *knowledge.Store, embedder embeddings.Embedder) (*SemanticIndex, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(factCollection, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create fact collection: %w", err)
	}

	facts := ks.Facts()
	docs := make([]chromem.Document, 0, len(facts))
	for _, f := range facts {
		docs = append(docs, chromem.Document{
			ID:       f.ID,
			Content:  strings.Join(f.Fields(), " "),
			Metadata: map[string]string{"kind": string(f.Kind), "section": f.Section},
		})
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return nil, fmt.Errorf("index facts: %w", err)
	}
	return &SemanticIndex{collection: col}, nil
}

// Search returns the IDs of the facts nearest to the query text.
func (idx *SemanticIndex) Search(ctx context.Context, queryText string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = maxGeneralFacts
	}
	if count := idx.collection.Count(); count == 0 {
		return nil, nil
	} else if limit > count {
		limit = count
	}

	results, err := idx.collection.Query(ctx, queryText, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("semantic query: %w", err)
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids, nil
}
