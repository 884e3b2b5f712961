package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/models"
)

// fakeProjectRepo is an in-memory ProjectRepository.
type fakeProjectRepo struct {
	projects map[int64]*models.Project
	nextID   int64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[int64]*models.Project), nextID: 1}
}

func (f *fakeProjectRepo) Create(ctx context.Context, owner string, details *models.ProjectDetails) (int64, error) {
	id := f.nextID
	f.nextID++
	d := *details
	d.ID = id
	d.Owner = owner
	f.projects[id] = &models.Project{Details: d, Skills: []string{}, Roles: []string{}, Interests: []string{}}
	return id, nil
}

func (f *fakeProjectRepo) Get(ctx context.Context, id int64) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjectRepo) ListOwned(ctx context.Context, owner string) ([]models.ProjectDetails, error) {
	var out []models.ProjectDetails
	for _, p := range f.projects {
		if p.Details.Owner == owner {
			out = append(out, p.Details)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) OwnerUsername(ctx context.Context, id int64) (string, error) {
	p, ok := f.projects[id]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return p.Details.Owner, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, id int64, upd *models.ProjectUpdate) error {
	p, ok := f.projects[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if upd.Details.Title != nil {
		p.Details.Title = *upd.Details.Title
	}
	if upd.Details.Status != nil {
		p.Details.Status = *upd.Details.Status
	}
	if upd.Skills != nil {
		p.Skills = upd.Skills
	}
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.projects[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

// fakeIndexer records mirror calls.
type fakeIndexer struct {
	syncedProjects  []int64
	syncedStudents  []int64
	removedProjects []int64
	removedStudents []int64
	err             error
}

func (f *fakeIndexer) SyncProject(ctx context.Context, p *models.Project) error {
	f.syncedProjects = append(f.syncedProjects, p.Details.ID)
	return f.err
}

func (f *fakeIndexer) SyncStudent(ctx context.Context, s *models.Student) error {
	f.syncedStudents = append(f.syncedStudents, s.Profile.ID)
	return f.err
}

func (f *fakeIndexer) RemoveProject(ctx context.Context, id int64) error {
	f.removedProjects = append(f.removedProjects, id)
	return f.err
}

func (f *fakeIndexer) RemoveStudent(ctx context.Context, id int64) error {
	f.removedStudents = append(f.removedStudents, id)
	return f.err
}

func TestProjectCreateDefaultsAndValidation(t *testing.T) {
	svc := NewProjectService(newFakeProjectRepo(), nil, zap.NewNop())
	ctx := context.Background()

	project, err := svc.Create(ctx, "alice", &models.ProjectDetails{Title: "Chat Server"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.Details.Status != models.ProjectStatusActive {
		t.Errorf("Status = %q, want Active default", project.Details.Status)
	}

	if _, err := svc.Create(ctx, "alice", &models.ProjectDetails{}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("missing title = %v, want validation error", err)
	}
	if _, err := svc.Create(ctx, "alice", &models.ProjectDetails{Title: "X", Status: "Paused"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("unknown status = %v, want validation error", err)
	}
}

func TestProjectMutationsMirrorIntoIndex(t *testing.T) {
	repo := newFakeProjectRepo()
	idx := &fakeIndexer{}
	svc := NewProjectService(repo, idx, zap.NewNop())
	ctx := context.Background()

	project, err := svc.Create(ctx, "alice", &models.ProjectDetails{Title: "Chat Server"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(idx.syncedProjects) != 1 {
		t.Fatalf("create should sync the index, synced %v", idx.syncedProjects)
	}

	if _, err := svc.Update(ctx, project.Details.ID, &models.ProjectUpdate{Skills: []string{"Go"}}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(idx.syncedProjects) != 2 {
		t.Errorf("update should re-sync the index, synced %v", idx.syncedProjects)
	}

	if err := svc.Delete(ctx, project.Details.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(idx.removedProjects) != 1 || idx.removedProjects[0] != project.Details.ID {
		t.Errorf("delete should remove from the index, removed %v", idx.removedProjects)
	}
}

func TestProjectIndexFailureDoesNotFailMutation(t *testing.T) {
	repo := newFakeProjectRepo()
	idx := &fakeIndexer{err: errors.New("redis down")}
	svc := NewProjectService(repo, idx, zap.NewNop())

	if _, err := svc.Create(context.Background(), "alice", &models.ProjectDetails{Title: "X"}); err != nil {
		t.Errorf("index failure should not surface: %v", err)
	}
}
