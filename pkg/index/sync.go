package index

import (
	"context"

	"github.com/uw-nexus/nexus-be/pkg/catalog"
	"github.com/uw-nexus/nexus-be/pkg/models"
)

// Syncer keeps the index consistent with profile mutations. Services call
// it after every create, update, and delete when the index backend is
// configured.
type Syncer struct {
	client *Client
}

// NewSyncer creates a syncer over the given index client.
func NewSyncer(client *Client) *Syncer {
	return &Syncer{client: client}
}

// SyncProject writes the project's current state into the index.
func (s *Syncer) SyncProject(ctx context.Context, p *models.Project) error {
	doc := &Doc{
		ID: p.Details.ID,
		Scalars: map[string]string{
			"title":     p.Details.Title,
			"status":    p.Details.Status,
			"duration":  p.Details.Duration,
			"team_size": p.Details.TeamSize,
			"postal":    p.Details.Postal,
		},
		Tags: map[catalog.Kind][]string{
			catalog.KindSkill:    p.Skills,
			catalog.KindRole:     p.Roles,
			catalog.KindInterest: p.Interests,
		},
	}
	return s.client.Upsert(ctx, catalog.EntityProject, doc)
}

// SyncStudent writes the student's current state into the index.
func (s *Syncer) SyncStudent(ctx context.Context, st *models.Student) error {
	scalars := map[string]string{
		"username":   st.Profile.Username,
		"first_name": st.Profile.FirstName,
		"last_name":  st.Profile.LastName,
	}
	if st.Profile.Degree != nil {
		scalars["degree"] = *st.Profile.Degree
	}
	if st.Profile.Postal != nil {
		scalars["postal"] = *st.Profile.Postal
	}
	doc := &Doc{
		ID:      st.Profile.ID,
		Scalars: scalars,
		Tags: map[catalog.Kind][]string{
			catalog.KindSkill:    st.Skills,
			catalog.KindRole:     st.Roles,
			catalog.KindInterest: st.Interests,
			catalog.KindField:    st.Fields,
		},
	}
	return s.client.Upsert(ctx, catalog.EntityStudent, doc)
}

// RemoveProject drops a project from the index.
func (s *Syncer) RemoveProject(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, catalog.EntityProject, id)
}

// RemoveStudent drops a student from the index.
func (s *Syncer) RemoveStudent(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, catalog.EntityStudent, id)
}
