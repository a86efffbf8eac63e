// Package embedcache wraps an agent.LLMClient's Embed/EmbedBatch with a
// Qdrant-backed cache keyed by a hash of the input text, so repeated
// queries and persona expansions across runs never pay for the same
// embedding twice.
package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"go-deepresearch/internal/agent"
	"go-deepresearch/internal/permissions"
	"go-deepresearch/internal/types"
)

// cacheNamespace roots the deterministic per-text point IDs (Qdrant point
// IDs must be valid UUIDs; a bare hex digest is not one).
var cacheNamespace = uuid.MustParse("7f6e2c2a-7b39-4b0c-9e7b-3b8f9b7e6e10")

const vectorSize = 1536

var _ agent.LLMClient = (*Cache)(nil)

// Cache wraps an agent.LLMClient with a Qdrant collection that stores one
// point per distinct input text, keyed by a UUID derived from the text (see
// pointID) so lookups never need a vector search of their own.
type Cache struct {
	next           agent.LLMClient
	client         *qdrant.Client
	collectionName string
}

// New dials qdrantHost:qdrantPort, ensures the cache collection exists, and returns a
// Cache decorating next. next's DecideAction/GenerateAnswer pass through
// unchanged; only Embed/EmbedBatch are cached.
func New(ctx context.Context, next agent.LLMClient, qdrantHost string, qdrantPort int, apiKey, collectionName string, useTLS bool) (*Cache, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   qdrantHost,
		Port:   qdrantPort,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("embedcache: connect to qdrant: %w", err)
	}

	c := &Cache{next: next, client: client, collectionName: collectionName}
	if err := c.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cache) ensureCollection(ctx context.Context) error {
	exists, err := c.client.CollectionExists(ctx, c.collectionName)
	if err != nil {
		return fmt.Errorf("embedcache: check collection existence: %w", err)
	}
	if !exists {
		err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: c.collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("embedcache: create collection: %w", err)
		}
		log.Printf("embedcache: created collection %s", c.collectionName)
	}

	wait := true
	fieldType := qdrant.FieldType_FieldTypeKeyword
	_, err = c.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: c.collectionName,
		FieldName:      "text_hash",
		FieldType:      &fieldType,
		Wait:           &wait,
	})
	if err != nil {
		log.Printf("embedcache: note: index creation for text_hash: %v", err)
	}
	return nil
}

// DecideAction passes straight through to next; only embeddings are cached.
func (c *Cache) DecideAction(ctx context.Context, prompt string, perms permissions.ActionPermissions) (agent.Action, int, int, error) {
	return c.next.DecideAction(ctx, prompt, perms)
}

func textKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// pointID derives a deterministic UUID from text so the same input always
// maps to the same Qdrant point, without a lookup table of its own.
func pointID(text string) string {
	return uuid.NewSHA1(cacheNamespace, []byte(text)).String()
}

// Embed returns the cached embedding for text if present, otherwise calls
// through to next.EmbedBatch (via c.EmbedBatch) and stores the result before returning it. A
// cache hit costs zero tokens since no embedding call is made.
func (c *Cache) Embed(ctx context.Context, text string) ([]float32, int, error) {
	out, tokensUsed, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, 0, err
	}
	return out[0], tokensUsed, nil
}

// EmbedBatch looks up every text's cached vector in one round trip, calls
// next.EmbedBatch only for the misses, and backfills the cache with those
// results before returning the full, in-order set of vectors. The
// returned tokensUsed is whatever next reported for the miss call only —
// cache hits are free.
func (c *Cache) EmbedBatch(ctx context.Context, texts []string) ([][]float32, int, error) {
	if len(texts) == 0 {
		return nil, 0, nil
	}

	out := make([][]float32, len(texts))
	missIdx := make([]int, 0, len(texts))
	misses := make([]string, 0, len(texts))

	for i, text := range texts {
		vec, ok, err := c.lookup(ctx, text)
		if err != nil {
			log.Printf("embedcache: lookup failed, falling back to live embed: %v", err)
			ok = false
		}
		if ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		misses = append(misses, text)
	}

	if len(misses) == 0 {
		return out, 0, nil
	}

	fresh, tokensUsed, err := c.next.EmbedBatch(ctx, misses)
	if err != nil {
		return nil, 0, err
	}
	if len(fresh) != len(misses) {
		return nil, 0, fmt.Errorf("embedcache: embedder returned %d vectors for %d misses", len(fresh), len(misses))
	}

	for j, idx := range missIdx {
		out[idx] = fresh[j]
		if err := c.store(ctx, misses[j], fresh[j]); err != nil {
			log.Printf("embedcache: store failed for one entry: %v", err)
		}
	}
	return out, tokensUsed, nil
}

func (c *Cache) lookup(ctx context.Context, text string) ([]float32, bool, error) {
	points, err := c.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: c.collectionName,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(pointID(text))},
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("embedcache: get point: %w", err)
	}
	if len(points) == 0 {
		return nil, false, nil
	}
	vectors := points[0].GetVectors().GetVector()
	if vectors == nil || len(vectors.Data) == 0 {
		return nil, false, nil
	}
	return vectors.Data, true, nil
}

func (c *Cache) store(ctx context.Context, text string, vec []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(pointID(text)),
		Vectors: qdrant.NewVectors(vec...),
		Payload: map[string]*qdrant.Value{
			"text_hash": qdrant.NewValueString(textKey(text)),
		},
	}
	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("embedcache: upsert point: %w", err)
	}
	return nil
}

// GenerateAnswer passes straight through to next.
func (c *Cache) GenerateAnswer(ctx context.Context, prompt string) (string, []types.Reference, int, int, error) {
	return c.next.GenerateAnswer(ctx, prompt)
}
