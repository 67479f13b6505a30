// Package weaviate implements vectorindex.Index on a Weaviate instance. One
// collection maps to one class with vectorizer "none" and cosine distance;
// vectors are supplied by the caller, never computed engine-side.
package weaviate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"fusego/src/log"
	"fusego/src/vectorindex"
)

// batchSize is how many objects one batch insert carries.
const batchSize = 100

// extIDProperty mirrors the caller's string id inside the payload; Weaviate
// object ids must be UUIDs, so the external id is hashed into one and kept
// here for the return trip.
const extIDProperty = "extId"

// Store adapts a Weaviate client to vectorindex.Index.
type Store struct {
	client *weaviate.Client

	mu   sync.Mutex
	dims map[string]int
}

func NewStore(client *weaviate.Client) *Store {
	return &Store{client: client, dims: make(map[string]int)}
}

var _ vectorindex.Index = (*Store)(nil)

// className maps a collection name to a Weaviate class name, which must
// start with an upper-case letter.
func className(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// objectID derives the deterministic UUID for an external id, namespaced by
// collection so the same chunk id in two collections never collides.
func objectID(collection, id string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(collection+"/"+id)).String())
}

// CreateCollection drops any existing class of the same name and creates a
// fresh one.
func (s *Store) CreateCollection(ctx context.Context, name string, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("weaviate: dimension must be positive, got %d", dim)
	}
	class := className(name)

	exists, err := s.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		log.Info("dropping existing collection", "collection", class)
		if err := s.client.Schema().ClassDeleter().WithClassName(class).Do(ctx); err != nil {
			return fmt.Errorf("failed to drop class %s: %w", class, err)
		}
	}

	err = s.client.Schema().ClassCreator().WithClass(&models.Class{
		Class:             class,
		Vectorizer:        "none",
		VectorIndexConfig: map[string]interface{}{"distance": "cosine"},
		Properties: []*models.Property{
			{Name: extIDProperty, DataType: []string{"text"}},
		},
	}).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create class %s: %w", class, err)
	}

	s.mu.Lock()
	s.dims[class] = dim
	s.mu.Unlock()
	return nil
}

func (s *Store) checkDim(class string, vector []float32) error {
	s.mu.Lock()
	dim, known := s.dims[class]
	s.mu.Unlock()
	if known && len(vector) != dim {
		return fmt.Errorf("%w: got %d, collection has %d", vectorindex.ErrDimensionMismatch, len(vector), dim)
	}
	return nil
}

// AddVectors batch-inserts in groups of batchSize. The external id is stored
// as a payload property alongside the caller's metadata.
func (s *Store) AddVectors(ctx context.Context, name string, vectors [][]float32, ids []string, metadata []map[string]interface{}) error {
	if len(vectors) != len(ids) || (metadata != nil && len(metadata) != len(ids)) {
		return vectorindex.ErrLengthMismatch
	}
	class := className(name)

	objects := make([]*models.Object, len(ids))
	for i, id := range ids {
		if err := s.checkDim(class, vectors[i]); err != nil {
			return fmt.Errorf("vector %d: %w", i, err)
		}

		properties := map[string]interface{}{extIDProperty: id}
		if metadata != nil {
			for k, v := range metadata[i] {
				properties[k] = v
			}
		}
		objects[i] = &models.Object{
			Class:      class,
			ID:         objectID(class, id),
			Vector:     vectors[i],
			Properties: properties,
		}
	}

	for start := 0; start < len(objects); start += batchSize {
		end := start + batchSize
		if end > len(objects) {
			end = len(objects)
		}

		resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects[start:end]...).Do(ctx)
		if err != nil {
			return fmt.Errorf("batch insert failed at offset %d: %w", start, err)
		}
		for _, item := range resp {
			if item.Result != nil && item.Result.Errors != nil && len(item.Result.Errors.Error) > 0 {
				return fmt.Errorf("batch insert rejected object: %s", item.Result.Errors.Error[0].Message)
			}
		}
		log.Debug("batch inserted", "collection", class, "offset", start, "count", end-start)
	}

	return nil
}

// Search runs a nearVector query, optionally restricted by equality filters
// over payload properties. Scores are 1 - cosine distance.
func (s *Store) Search(ctx context.Context, name string, query []float32, topK int, filterMap map[string]interface{}) ([]vectorindex.Hit, error) {
	class := className(name)
	if err := s.checkDim(class, query); err != nil {
		return nil, err
	}

	builder := s.client.GraphQL().Get().
		WithClassName(class).
		WithFields(
			graphql.Field{Name: extIDProperty},
			graphql.Field{Name: "_additional { distance }"},
		).
		WithNearVector(s.client.GraphQL().NearVectorArgBuilder().WithVector(query)).
		WithLimit(topK)

	if len(filterMap) > 0 {
		where, err := buildWhere(filterMap)
		if err != nil {
			return nil, err
		}
		builder = builder.WithWhere(where)
	}

	result, err := builder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("search failed: %s", result.Errors[0].Message)
	}

	var hits []vectorindex.Hit
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return hits, nil
	}
	objects, ok := data[class].([]interface{})
	if !ok {
		return hits, nil
	}

	for _, raw := range objects {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		additional, _ := obj["_additional"].(map[string]interface{})
		distance, _ := additional["distance"].(float64)
		id, _ := obj[extIDProperty].(string)

		hits = append(hits, vectorindex.Hit{ID: id, Score: 1 - distance})
	}
	return hits, nil
}

// buildWhere turns an equality filter map into a Where clause, ANDing
// multiple keys. Keys are processed in sorted order so queries are stable.
func buildWhere(filterMap map[string]interface{}) (*filters.WhereBuilder, error) {
	keys := make([]string, 0, len(filterMap))
	for k := range filterMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]*filters.WhereBuilder, 0, len(keys))
	for _, key := range keys {
		clause := filters.Where().WithPath([]string{key}).WithOperator(filters.Equal)
		switch v := filterMap[key].(type) {
		case string:
			clause = clause.WithValueText(v)
		case int:
			clause = clause.WithValueInt(int64(v))
		case int64:
			clause = clause.WithValueInt(v)
		case float64:
			clause = clause.WithValueNumber(v)
		case bool:
			clause = clause.WithValueBoolean(v)
		default:
			return nil, fmt.Errorf("unsupported filter value type %T for key %s", v, key)
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return filters.Where().WithOperator(filters.And).WithOperands(clauses), nil
}

// CollectionExists checks the schema for the class.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	class := className(name)

	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get schema: %w", err)
	}
	for _, c := range schema.Classes {
		if c.Class == class {
			return true, nil
		}
	}
	return false, nil
}

// DeleteCollection drops the class and everything in it.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	class := className(name)
	if err := s.client.Schema().ClassDeleter().WithClassName(class).Do(ctx); err != nil {
		return fmt.Errorf("failed to delete class %s: %w", class, err)
	}

	s.mu.Lock()
	delete(s.dims, class)
	s.mu.Unlock()
	return nil
}

// Count aggregates the object count of the class.
func (s *Store) Count(ctx context.Context, name string) (int, error) {
	class := className(name)

	result, err := s.client.GraphQL().Aggregate().
		WithClassName(class).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return 0, fmt.Errorf("count failed: %s", result.Errors[0].Message)
	}

	aggregate, ok := result.Data["Aggregate"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("count failed: malformed aggregate response")
	}
	rows, ok := aggregate[class].([]interface{})
	if !ok || len(rows) == 0 {
		return 0, nil
	}
	row, _ := rows[0].(map[string]interface{})
	meta, _ := row["meta"].(map[string]interface{})
	count, _ := meta["count"].(float64)

	return int(count), nil
}

// getObject fetches one object by external id, with ok=false on absence.
func (s *Store) getObject(ctx context.Context, name, id string, withVector bool) (*models.Object, bool, error) {
	class := className(name)

	getter := s.client.Data().ObjectsGetter().
		WithClassName(class).
		WithID(string(objectID(class, id)))
	if withVector {
		getter = getter.WithVector()
	}

	objects, err := getter.Do(ctx)
	if err != nil {
		var clientErr *fault.WeaviateClientError
		if errors.As(err, &clientErr) && clientErr.StatusCode == 404 {
			return nil, false, nil
		}
		if strings.Contains(err.Error(), "404") {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get object %s: %w", id, err)
	}
	if len(objects) == 0 {
		return nil, false, nil
	}
	return objects[0], true, nil
}

// GetVector returns the stored vector for an external id.
func (s *Store) GetVector(ctx context.Context, name, id string) ([]float32, bool, error) {
	obj, ok, err := s.getObject(ctx, name, id, true)
	if err != nil || !ok {
		return nil, ok, err
	}
	return []float32(obj.Vector), true, nil
}

// GetMetadata returns the stored payload for an external id, minus the
// internal external-id mirror.
func (s *Store) GetMetadata(ctx context.Context, name, id string) (map[string]interface{}, bool, error) {
	obj, ok, err := s.getObject(ctx, name, id, false)
	if err != nil || !ok {
		return nil, ok, err
	}

	properties, _ := obj.Properties.(map[string]interface{})
	metadata := make(map[string]interface{}, len(properties))
	for k, v := range properties {
		if k != extIDProperty {
			metadata[k] = v
		}
	}
	return metadata, true, nil
}
