package chroma

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/config"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
)

// ChromaClient indexes manual corrections so draft generation can retrieve
// the corrections most similar to an incoming question.
type ChromaClient struct {
	client     chroma.Client
	embedFunc  *gemini.GeminiEmbeddingFunction
	config     *config.Config
	collection chroma.Collection // Pre-created collection
}

func NewChromaClient(cfg *config.Config) (*ChromaClient, error) {
	if cfg.ChromaAPIKey == "" {
		return nil, fmt.Errorf("CHROMA_API_KEY is required")
	}

	// The Gemini embedding function reads its key from the environment
	if cfg.GeminiApiKey != "" {
		os.Setenv("GEMINI_API_KEY", cfg.GeminiApiKey)
	}

	embedFunc, err := gemini.NewGeminiEmbeddingFunction(
		gemini.WithEnvAPIKey(),
		gemini.WithDefaultModel("text-embedding-004"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
	}

	var client chroma.Client
	if cfg.ChromaDatabase != "" && cfg.ChromaTenant != "" {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
			chroma.WithDatabaseAndTenant(cfg.ChromaDatabase, cfg.ChromaTenant),
		)
	} else if cfg.ChromaTenant != "" {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
			chroma.WithTenant(cfg.ChromaTenant),
		)
	} else {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	ctx := context.Background()
	collection, err := client.GetOrCreateCollection(
		ctx,
		"corrections",
		chroma.WithEmbeddingFunctionCreate(embedFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("Initialized Chroma client with collection: corrections")

	return &ChromaClient{
		client:     client,
		embedFunc:  embedFunc,
		config:     cfg,
		collection: collection,
	}, nil
}

// UpsertCorrectionEmbedding indexes a correction by its question text.
// Using the correction ID as the document ID keeps re-indexing idempotent.
func (c *ChromaClient) UpsertCorrectionEmbedding(ctx context.Context, correctionID, userID, question, answer string) error {
	text := fmt.Sprintf("Q: %s\nA: %s", question, answer)
	if len(text) > 10000 {
		text = text[:10000]
	}

	metadata, err := chroma.NewDocumentMetadataFromMap(map[string]interface{}{
		"user_id":       userID,
		"correction_id": correctionID,
	})
	if err != nil {
		return fmt.Errorf("failed to create metadata: %w", err)
	}

	err = c.collection.Upsert(
		ctx,
		chroma.WithIDs(chroma.DocumentID(correctionID)),
		chroma.WithMetadatas(metadata),
		chroma.WithTexts(text),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert correction embedding: %w", err)
	}

	return nil
}

// SimilarCorrections returns the IDs of the corrections whose questions are
// closest to the query, scoped to one user.
func (c *ChromaClient) SimilarCorrections(ctx context.Context, userID, query string, limit int) ([]string, error) {
	where := chroma.EqString("user_id", userID)

	results, err := c.collection.Query(
		ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(limit),
		chroma.WithWhereQuery(where),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	if results == nil || results.CountGroups() == 0 {
		return []string{}, nil
	}

	idGroups := results.GetIDGroups()
	if len(idGroups) == 0 || len(idGroups[0]) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, len(idGroups[0]))
	for _, id := range idGroups[0] {
		ids = append(ids, string(id))
	}
	return ids, nil
}

// DeleteCorrectionEmbedding removes an indexed correction.
func (c *ChromaClient) DeleteCorrectionEmbedding(ctx context.Context, correctionID string) error {
	err := c.collection.Delete(ctx, chroma.WithIDsDelete(chroma.DocumentID(correctionID)))
	if err != nil {
		return fmt.Errorf("failed to delete correction embedding: %w", err)
	}
	return nil
}
