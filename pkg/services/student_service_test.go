package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/models"
)

type fakeStudentRepo struct {
	students map[string]*models.Student
	nextID   int64
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[string]*models.Student), nextID: 1}
}

func (f *fakeStudentRepo) Create(ctx context.Context, username string, profile *models.StudentProfile) (int64, error) {
	id := f.nextID
	f.nextID++
	p := *profile
	p.ID = id
	p.Username = username
	f.students[username] = &models.Student{
		Profile: p,
		Skills:  []string{}, Roles: []string{}, Interests: []string{}, Fields: []string{},
	}
	return id, nil
}

func (f *fakeStudentRepo) IDByUsername(ctx context.Context, username string) (int64, error) {
	s, ok := f.students[username]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	return s.Profile.ID, nil
}

func (f *fakeStudentRepo) Get(ctx context.Context, username string) (*models.Student, error) {
	s, ok := f.students[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s, nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, username string, upd *models.StudentUpdate) error {
	s, ok := f.students[username]
	if !ok {
		return apperrors.ErrNotFound
	}
	if upd.Profile.School != nil {
		s.Profile.School = upd.Profile.School
	}
	if upd.Skills != nil {
		s.Skills = upd.Skills
	}
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, username string) error {
	if _, ok := f.students[username]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.students, username)
	return nil
}

func TestStudentCreateRequiresName(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo(), nil, zap.NewNop())

	if _, err := svc.Create(context.Background(), "alice", &models.StudentProfile{FirstName: "Alice"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("missing last name = %v, want validation error", err)
	}
}

func TestStudentLifecycleMirrorsIndex(t *testing.T) {
	repo := newFakeStudentRepo()
	idx := &fakeIndexer{}
	svc := NewStudentService(repo, idx, zap.NewNop())
	ctx := context.Background()

	student, err := svc.Create(ctx, "alice", &models.StudentProfile{FirstName: "Alice", LastName: "Lee"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(idx.syncedStudents) != 1 {
		t.Fatalf("create should sync, got %v", idx.syncedStudents)
	}

	if _, err := svc.Update(ctx, "alice", &models.StudentUpdate{Skills: []string{"Go"}}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(idx.syncedStudents) != 2 {
		t.Errorf("update should re-sync, got %v", idx.syncedStudents)
	}

	// Delete must capture the numeric id before the row disappears.
	if err := svc.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(idx.removedStudents) != 1 || idx.removedStudents[0] != student.Profile.ID {
		t.Errorf("removed = %v, want [%d]", idx.removedStudents, student.Profile.ID)
	}
}
