package services

import (
	"context"

	"github.com/uw-nexus/nexus-be/pkg/models"
)

// ProfileIndexer mirrors profile mutations into the external search index.
// Satisfied by index.Syncer. Services receive nil when the deployment uses
// the in-database ranking backend, in which case no mirroring happens.
type ProfileIndexer interface {
	SyncProject(ctx context.Context, p *models.Project) error
	SyncStudent(ctx context.Context, s *models.Student) error
	RemoveProject(ctx context.Context, id int64) error
	RemoveStudent(ctx context.Context, id int64) error
}
