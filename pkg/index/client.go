// Package index maintains the external search index in Redis and implements
// the index-backed ranking path. It mirrors the in-database backend's
// contract: same multiplicative score, same intersection semantics, same
// keyset pagination. A deployment uses either this backend or the
// in-database one, never both.
package index

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/catalog"
)

// Doc is one indexed profile: scalar display fields plus tag-set
// memberships.
type Doc struct {
	ID      int64
	Scalars map[string]string
	Tags    map[catalog.Kind][]string
}

// Client reads and writes the Redis index.
type Client struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewClient creates an index client.
func NewClient(rdb *redis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

func docKey(e catalog.Entity, id int64) string {
	return fmt.Sprintf("idx:%s:doc:%d", e, id)
}

func tagKey(e catalog.Entity, k catalog.Kind, name string) string {
	return fmt.Sprintf("idx:%s:%s:%s", e, k, name)
}

func allKey(e catalog.Entity) string {
	return fmt.Sprintf("idx:%s:all", e)
}

// tagsField is the doc-hash field recording a tag set's membership, so
// Upsert and Delete can diff without scanning every tag key.
func tagsField(k catalog.Kind) string {
	return "tags:" + string(k)
}

// Upsert writes a document and moves its id between tag membership sets to
// match the new tag lists.
func (c *Client) Upsert(ctx context.Context, e catalog.Entity, doc *Doc) error {
	old, err := c.rdb.HGetAll(ctx, docKey(e, doc.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to read indexed doc: %w", err)
	}

	pipe := c.rdb.TxPipeline()
	member := strconv.FormatInt(doc.ID, 10)
	pipe.SAdd(ctx, allKey(e), member)

	fields := make(map[string]string, len(doc.Scalars)+len(doc.Tags))
	for k, v := range doc.Scalars {
		fields[k] = v
	}

	for _, kind := range catalog.Kinds(e) {
		newTags := catalog.NormalizeTags(doc.Tags[kind])
		newSet := make(map[string]struct{}, len(newTags))
		for _, t := range newTags {
			newSet[t] = struct{}{}
			pipe.SAdd(ctx, tagKey(e, kind, t), member)
		}
		for _, t := range splitField(old[tagsField(kind)]) {
			if _, keep := newSet[t]; !keep {
				pipe.SRem(ctx, tagKey(e, kind, t), member)
			}
		}
		fields[tagsField(kind)] = strings.Join(newTags, ",")
	}

	pipe.Del(ctx, docKey(e, doc.ID))
	pipe.HSet(ctx, docKey(e, doc.ID), fields)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert indexed doc: %w", err)
	}
	return nil
}

// Delete removes a document and its tag memberships.
func (c *Client) Delete(ctx context.Context, e catalog.Entity, id int64) error {
	old, err := c.rdb.HGetAll(ctx, docKey(e, id)).Result()
	if err != nil {
		return fmt.Errorf("failed to read indexed doc: %w", err)
	}

	pipe := c.rdb.TxPipeline()
	member := strconv.FormatInt(id, 10)
	pipe.SRem(ctx, allKey(e), member)
	for _, kind := range catalog.Kinds(e) {
		for _, t := range splitField(old[tagsField(kind)]) {
			pipe.SRem(ctx, tagKey(e, kind, t), member)
		}
	}
	pipe.Del(ctx, docKey(e, id))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete indexed doc: %w", err)
	}
	return nil
}

func splitField(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
