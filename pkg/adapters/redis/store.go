package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.GraphStore using Redis, so several editor replicas
// can share one canvas.
//
// Layout (relative to the prefix):
//
//	seq:<kind>     INCR counter for "<kind>-<n>" ids
//	order          INCR counter used as insertion score
//	nodes          ZSET of instance ids
//	kind:<id>      node kind
//	fields:<id>    HASH field -> JSON value
//	edges          HASH edge id -> JSON edge
//	edges:order    ZSET of edge ids
//
// Field values round-trip through JSON, so numbers are read back as float64.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of node keys, refreshed on every write.
// Expired nodes are dropped from the index lazily by Snapshot.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix of the canvas.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "pipecanvas:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client returns the underlying client, e.g. to build a Locker on it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) kindKey(id string) string   { return s.prefix + "kind:" + id }
func (s *Store) fieldsKey(id string) string { return s.prefix + "fields:" + id }
func (s *Store) nodesKey() string           { return s.prefix + "nodes" }
func (s *Store) edgesKey() string           { return s.prefix + "edges" }
func (s *Store) edgeOrderKey() string       { return s.prefix + "edges:order" }

func (s *Store) nextScore(ctx context.Context) (float64, error) {
	n, err := s.client.Incr(ctx, s.prefix+"order").Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence: %w", err)
	}
	return float64(n), nil
}

func (s *Store) touch(ctx context.Context, pipe backend.Pipeliner, id string) {
	if s.ttl > 0 {
		pipe.Expire(ctx, s.kindKey(id), s.ttl)
		pipe.Expire(ctx, s.fieldsKey(id), s.ttl)
	}
}

func (s *Store) exists(ctx context.Context, id string) error {
	n, err := s.client.Exists(ctx, s.kindKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check node in redis: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return nil
}

// AddNode creates an instance of kind.
func (s *Store) AddNode(ctx context.Context, kind string, values map[string]any) (string, error) {
	seq, err := s.client.Incr(ctx, s.prefix+"seq:"+kind).Result()
	if err != nil {
		return "", fmt.Errorf("failed to allocate node id: %w", err)
	}
	id := fmt.Sprintf("%s-%d", kind, seq)

	score, err := s.nextScore(ctx)
	if err != nil {
		return "", err
	}

	encoded, err := encodeValues(values)
	if err != nil {
		return "", err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, s.kindKey(id), kind, s.ttl)
		if len(encoded) > 0 {
			pipe.HSet(ctx, s.fieldsKey(id), encoded)
		}
		pipe.ZAdd(ctx, s.nodesKey(), backend.Z{Score: score, Member: id})
		s.touch(ctx, pipe, id)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to save node to redis: %w", err)
	}
	return id, nil
}

// Kind returns the node kind of an instance.
func (s *Store) Kind(ctx context.Context, instanceID string) (string, error) {
	kind, err := s.client.Get(ctx, s.kindKey(instanceID)).Result()
	if err != nil {
		if err == backend.Nil {
			return "", fmt.Errorf("%w: %s", domain.ErrNodeNotFound, instanceID)
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return kind, nil
}

// GetFieldValue returns the stored value of field.
func (s *Store) GetFieldValue(ctx context.Context, instanceID, field string) (any, bool, error) {
	if err := s.exists(ctx, instanceID); err != nil {
		return nil, false, err
	}

	raw, err := s.client.HGet(ctx, s.fieldsKey(instanceID), field).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal field %q: %w", field, err)
	}
	return v, true, nil
}

// SetFieldValue stores value under field.
func (s *Store) SetFieldValue(ctx context.Context, instanceID, field string, value any) error {
	if err := s.exists(ctx, instanceID); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal field %q: %w", field, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.HSet(ctx, s.fieldsKey(instanceID), field, data)
		s.touch(ctx, pipe, instanceID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// FieldValues returns every stored value of an instance.
func (s *Store) FieldValues(ctx context.Context, instanceID string) (map[string]any, error) {
	if err := s.exists(ctx, instanceID); err != nil {
		return nil, err
	}

	raw, err := s.client.HGetAll(ctx, s.fieldsKey(instanceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return decodeValues(raw)
}

// RemoveNode deletes the instance and its incident edges.
func (s *Store) RemoveNode(ctx context.Context, instanceID string) error {
	if err := s.exists(ctx, instanceID); err != nil {
		return err
	}

	edges, err := s.Edges(ctx)
	if err != nil {
		return err
	}
	var incident []string
	for _, e := range edges {
		if e.Source == instanceID || e.Target == instanceID {
			incident = append(incident, e.ID)
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.kindKey(instanceID), s.fieldsKey(instanceID))
		pipe.ZRem(ctx, s.nodesKey(), instanceID)
		s.dropEdges(ctx, pipe, incident)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove node from redis: %w", err)
	}
	return nil
}

func (s *Store) dropEdges(ctx context.Context, pipe backend.Pipeliner, ids []string) {
	if len(ids) == 0 {
		return
	}
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	pipe.HDel(ctx, s.edgesKey(), ids...)
	pipe.ZRem(ctx, s.edgeOrderKey(), members...)
}

// Connect stores the edge. A missing id is filled with a UUID.
func (s *Store) Connect(ctx context.Context, edge domain.Edge) (domain.Edge, error) {
	for _, id := range []string{edge.Source, edge.Target} {
		if err := s.exists(ctx, id); err != nil {
			return domain.Edge{}, err
		}
	}
	if edge.ID == "" {
		edge.ID = uuid.NewString()
	}

	data, err := json.Marshal(edge)
	if err != nil {
		return domain.Edge{}, fmt.Errorf("failed to marshal edge: %w", err)
	}
	score, err := s.nextScore(ctx)
	if err != nil {
		return domain.Edge{}, err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.HSet(ctx, s.edgesKey(), edge.ID, data)
		pipe.ZAddNX(ctx, s.edgeOrderKey(), backend.Z{Score: score, Member: edge.ID})
		return nil
	})
	if err != nil {
		return domain.Edge{}, fmt.Errorf("failed to save edge to redis: %w", err)
	}
	return edge, nil
}

// Disconnect deletes an edge by id.
func (s *Store) Disconnect(ctx context.Context, edgeID string) error {
	var del *backend.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		del = pipe.HDel(ctx, s.edgesKey(), edgeID)
		pipe.ZRem(ctx, s.edgeOrderKey(), edgeID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove edge from redis: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEdgeNotFound, edgeID)
	}
	return nil
}

// Edges returns every edge in insertion order.
func (s *Store) Edges(ctx context.Context) ([]domain.Edge, error) {
	return s.readEdges(ctx, s.client)
}

func (s *Store) readEdges(ctx context.Context, c backend.Cmdable) ([]domain.Edge, error) {
	ids, err := c.ZRange(ctx, s.edgeOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list edges: %w", err)
	}
	edges := make([]domain.Edge, 0, len(ids))
	if len(ids) == 0 {
		return edges, nil
	}

	raw, err := c.HMGet(ctx, s.edgesKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get edges: %w", err)
	}
	for _, r := range raw {
		str, ok := r.(string)
		if !ok {
			continue
		}
		var e domain.Edge
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// pruneRetries bounds how often PruneInputs restarts after a concurrent
// edge write.
const pruneRetries = 10

// PruneInputs deletes every edge entering instanceID through one of handles.
// The edge keys are watched, so an edge connected between the read and the
// delete restarts the transaction instead of surviving it.
func (s *Store) PruneInputs(ctx context.Context, instanceID string, handles []string) ([]domain.Edge, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	var removed []domain.Edge
	prune := func(tx *backend.Tx) error {
		edges, err := s.readEdges(ctx, tx)
		if err != nil {
			return err
		}

		removed = nil
		var ids []string
		for _, e := range edges {
			if e.Target == instanceID && slices.Contains(handles, e.TargetHandle) {
				removed = append(removed, e)
				ids = append(ids, e.ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			s.dropEdges(ctx, pipe, ids)
			return nil
		})
		return err
	}

	for range pruneRetries {
		err := s.client.Watch(ctx, prune, s.edgesKey(), s.edgeOrderKey())
		if errors.Is(err, backend.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to prune edges: %w", err)
		}
		return removed, nil
	}
	return nil, fmt.Errorf("failed to prune edges of %s: %w", instanceID, backend.TxFailedErr)
}

// Snapshot returns the graph as a wire payload.
func (s *Store) Snapshot(ctx context.Context) (domain.Pipeline, error) {
	ids, err := s.client.ZRange(ctx, s.nodesKey(), 0, -1).Result()
	if err != nil {
		return domain.Pipeline{}, fmt.Errorf("failed to list nodes: %w", err)
	}

	kinds := make([]*backend.StringCmd, len(ids))
	fields := make([]*backend.MapStringStringCmd, len(ids))
	pipe := s.client.Pipeline()
	for i, id := range ids {
		kinds[i] = pipe.Get(ctx, s.kindKey(id))
		fields[i] = pipe.HGetAll(ctx, s.fieldsKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != backend.Nil {
		return domain.Pipeline{}, fmt.Errorf("failed to read nodes: %w", err)
	}

	p := domain.Pipeline{Nodes: make([]domain.Node, 0, len(ids))}
	var expired []any
	for i, id := range ids {
		kind, err := kinds[i].Result()
		if err == backend.Nil {
			expired = append(expired, id)
			continue
		}
		data, err := decodeValues(fields[i].Val())
		if err != nil {
			return domain.Pipeline{}, err
		}
		p.Nodes = append(p.Nodes, domain.Node{ID: id, Type: kind, Data: data})
	}

	// Lazy cleanup of nodes whose keys expired.
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.nodesKey(), expired...).Err(); err != nil {
			return domain.Pipeline{}, fmt.Errorf("failed to prune expired nodes: %w", err)
		}
	}

	p.Edges, err = s.Edges(ctx)
	if err != nil {
		return domain.Pipeline{}, err
	}
	return p, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func encodeValues(values map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for k, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", k, err)
		}
		out[k] = string(data)
	}
	return out, nil
}

func decodeValues(raw map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for k, r := range raw {
		var v any
		if err := json.Unmarshal([]byte(r), &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal field %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}
