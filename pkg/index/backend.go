package index

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/uw-nexus/nexus-be/pkg/catalog"
	"github.com/uw-nexus/nexus-be/pkg/search"
)

// Backend ranks profiles against the Redis index instead of the database.
type Backend struct {
	client *Client
}

// NewBackend creates the index-backed ranking backend.
func NewBackend(client *Client) *Backend {
	return &Backend{client: client}
}

// candidate is one entity surviving the tag-set intersection, with its
// computed score and loaded document.
type candidate struct {
	id    int64
	score int
	doc   map[string]string
}

// rank runs the shared ranking pipeline: per-tag-set match counts from the
// membership sets, intersection across supplied tag sets, multiplicative
// score, scalar predicate filtering on the loaded docs, keyset cursor, page
// truncation. Ordering matches the in-database backend: score DESC, id ASC.
func (b *Backend) rank(ctx context.Context, e catalog.Entity, tagSets map[catalog.Kind][]string, scalars func(map[string]string) bool, c search.Cursor) ([]candidate, error) {
	counts := make(map[int64]int) // score accumulator, product of (count+1)
	first := true
	tagFiltered := false

	for _, kind := range catalog.Kinds(e) {
		names := catalog.NormalizeTags(tagSets[kind])
		if len(names) == 0 {
			continue
		}
		tagFiltered = true

		kindCounts := make(map[int64]int)
		for _, name := range names {
			members, err := b.client.rdb.SMembers(ctx, tagKey(e, kind, name)).Result()
			if err != nil {
				return nil, fmt.Errorf("failed to read tag members: %w", err)
			}
			for _, m := range members {
				id, err := strconv.ParseInt(m, 10, 64)
				if err != nil {
					continue
				}
				kindCounts[id]++
			}
		}

		if first {
			for id, n := range kindCounts {
				counts[id] = n + 1
			}
			first = false
			continue
		}
		// Intersection: drop entities with no match in this tag set.
		for id, score := range counts {
			n, ok := kindCounts[id]
			if !ok {
				delete(counts, id)
				continue
			}
			counts[id] = score * (n + 1)
		}
	}

	if !tagFiltered {
		members, err := b.client.rdb.SMembers(ctx, allKey(e)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read index universe: %w", err)
		}
		for _, m := range members {
			if id, err := strconv.ParseInt(m, 10, 64); err == nil {
				counts[id] = 0
			}
		}
	}

	candidates := make([]candidate, 0, len(counts))
	for id, score := range counts {
		doc, err := b.client.rdb.HGetAll(ctx, docKey(e, id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load indexed doc: %w", err)
		}
		if len(doc) == 0 {
			continue // membership set ahead of a deleted doc
		}
		if scalars != nil && !scalars(doc) {
			continue
		}
		candidates = append(candidates, candidate{id: id, score: score, doc: doc})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})

	candidates = applyCursor(candidates, tagFiltered, c)
	if len(candidates) > search.DefaultPageSize {
		candidates = candidates[:search.DefaultPageSize]
	}
	return candidates, nil
}

// applyCursor keeps rows strictly after the resume point in
// (score DESC, id ASC) order.
func applyCursor(cands []candidate, tagFiltered bool, c search.Cursor) []candidate {
	if c.Empty() {
		return cands
	}
	out := cands[:0]
	for _, cand := range cands {
		if tagFiltered && c.LastScore != nil && c.LastID != nil {
			if cand.score < *c.LastScore || (cand.score == *c.LastScore && cand.id > *c.LastID) {
				out = append(out, cand)
			}
			continue
		}
		if c.LastID != nil && cand.id > *c.LastID {
			out = append(out, cand)
		}
	}
	return out
}

// RankProjects implements search.Backend against the index.
func (b *Backend) RankProjects(ctx context.Context, f search.ProjectFilter, c search.Cursor) (*search.ProjectPage, error) {
	if err := search.ValidateCursor(f.TagFiltered(), c); err != nil {
		return nil, err
	}

	tagSets := map[catalog.Kind][]string{
		catalog.KindSkill:    f.Skills,
		catalog.KindRole:     f.Roles,
		catalog.KindInterest: f.Interests,
	}
	scalars := func(doc map[string]string) bool {
		return matchEqual(doc["duration"], f.Duration) &&
			matchEqual(doc["team_size"], f.TeamSize) &&
			matchEqual(doc["status"], f.Status) &&
			matchContains(doc["title"], f.Title)
	}

	cands, err := b.rank(ctx, catalog.EntityProject, tagSets, scalars, c)
	if err != nil {
		return nil, err
	}

	page := &search.ProjectPage{Items: []search.ProjectHit{}}
	for _, cand := range cands {
		var hit search.ProjectHit
		hit.Details.ID = cand.id
		hit.Details.Title = cand.doc["title"]
		hit.Details.Status = cand.doc["status"]
		hit.Details.Duration = cand.doc["duration"]
		hit.Details.TeamSize = cand.doc["team_size"]
		hit.Details.Postal = cand.doc["postal"]
		hit.Skills = splitList(cand.doc[tagsField(catalog.KindSkill)])
		hit.Roles = splitList(cand.doc[tagsField(catalog.KindRole)])
		hit.Interests = splitList(cand.doc[tagsField(catalog.KindInterest)])
		hit.Score = cand.score
		page.Items = append(page.Items, hit)
	}
	if n := len(page.Items); n > 0 {
		last := page.Items[n-1]
		page.Next = search.NextCursor(last.Score, last.Details.ID)
	}
	return page, nil
}

// RankStudents implements search.Backend against the index.
func (b *Backend) RankStudents(ctx context.Context, f search.StudentFilter, c search.Cursor) (*search.StudentPage, error) {
	if err := search.ValidateCursor(f.TagFiltered(), c); err != nil {
		return nil, err
	}

	tagSets := map[catalog.Kind][]string{
		catalog.KindSkill:    f.Skills,
		catalog.KindRole:     f.Roles,
		catalog.KindInterest: f.Interests,
	}
	scalars := func(doc map[string]string) bool {
		name := doc["first_name"] + " " + doc["last_name"]
		return matchEqual(doc["degree"], f.Degree) && matchContains(name, f.Name)
	}

	cands, err := b.rank(ctx, catalog.EntityStudent, tagSets, scalars, c)
	if err != nil {
		return nil, err
	}

	page := &search.StudentPage{Items: []search.StudentHit{}}
	for _, cand := range cands {
		var hit search.StudentHit
		hit.Profile.ID = cand.id
		hit.Profile.Username = cand.doc["username"]
		hit.Profile.FirstName = cand.doc["first_name"]
		hit.Profile.LastName = cand.doc["last_name"]
		if degree := cand.doc["degree"]; degree != "" {
			hit.Profile.Degree = &degree
		}
		if postal := cand.doc["postal"]; postal != "" {
			hit.Profile.Postal = &postal
		}
		hit.Skills = splitList(cand.doc[tagsField(catalog.KindSkill)])
		hit.Roles = splitList(cand.doc[tagsField(catalog.KindRole)])
		hit.Interests = splitList(cand.doc[tagsField(catalog.KindInterest)])
		hit.Fields = splitList(cand.doc[tagsField(catalog.KindField)])
		hit.Score = cand.score
		page.Items = append(page.Items, hit)
	}
	if n := len(page.Items); n > 0 {
		last := page.Items[n-1]
		page.Next = search.NextCursor(last.Score, last.Profile.ID)
	}
	return page, nil
}

func matchEqual(have string, want *string) bool {
	return want == nil || have == *want
}

func matchContains(have string, want *string) bool {
	return want == nil || strings.Contains(strings.ToLower(have), strings.ToLower(*want))
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

var _ search.Backend = (*Backend)(nil)
