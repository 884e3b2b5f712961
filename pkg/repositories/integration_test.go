//go:build integration

package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/models"
	"github.com/uw-nexus/nexus-be/pkg/repositories"
	"github.com/uw-nexus/nexus-be/pkg/search"
	"github.com/uw-nexus/nexus-be/pkg/testhelpers"
)

var seq int

// mkUser registers a unique user and returns its username.
func mkUser(t *testing.T, users repositories.UserRepository, userType string) string {
	t.Helper()
	seq++
	username := fmt.Sprintf("user%d", seq)
	_, err := users.Create(context.Background(), &models.User{
		Username:     username,
		Email:        username + "@example.edu",
		UserType:     userType,
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return username
}

func TestStudentReconcileLifecycle(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	users := repositories.NewUserRepository(db)
	students := repositories.NewStudentRepository(db)
	ctx := context.Background()

	username := mkUser(t, users, models.UserTypeStudent)
	if _, err := students.Create(ctx, username, &models.StudentProfile{
		FirstName: "Alice", LastName: "Lee",
	}); err != nil {
		t.Fatalf("create student: %v", err)
	}

	// First update populates two tag sets.
	if err := students.Update(ctx, username, &models.StudentUpdate{
		Skills: []string{"Go", "SQL"},
		Fields: []string{"Computer Science"},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	s, err := students.Get(ctx, username)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(s.Skills, []string{"Go", "SQL"}) {
		t.Errorf("skills = %v", s.Skills)
	}
	if !reflect.DeepEqual(s.Fields, []string{"Computer Science"}) {
		t.Errorf("fields = %v", s.Fields)
	}

	// Replacement removes stale rows and keeps survivors; untouched tag
	// sets (nil slice) stay as they were.
	if err := students.Update(ctx, username, &models.StudentUpdate{
		Skills: []string{"SQL", "Rust"},
	}); err != nil {
		t.Fatalf("update 2: %v", err)
	}
	s, err = students.Get(ctx, username)
	if err != nil {
		t.Fatalf("get 2: %v", err)
	}
	if !reflect.DeepEqual(s.Skills, []string{"Rust", "SQL"}) { // ordered by name
		t.Errorf("skills after replace = %v", s.Skills)
	}
	if !reflect.DeepEqual(s.Fields, []string{"Computer Science"}) {
		t.Errorf("fields should be untouched, got %v", s.Fields)
	}

	// Empty non-nil slice clears.
	if err := students.Update(ctx, username, &models.StudentUpdate{Skills: []string{}}); err != nil {
		t.Fatalf("update 3: %v", err)
	}
	s, _ = students.Get(ctx, username)
	if len(s.Skills) != 0 {
		t.Errorf("skills should be cleared, got %v", s.Skills)
	}

	// Re-running the same target is idempotent.
	upd := &models.StudentUpdate{Roles: []string{"Backend"}}
	if err := students.Update(ctx, username, upd); err != nil {
		t.Fatalf("update 4: %v", err)
	}
	if err := students.Update(ctx, username, upd); err != nil {
		t.Fatalf("idempotent update: %v", err)
	}
	s, _ = students.Get(ctx, username)
	if !reflect.DeepEqual(s.Roles, []string{"Backend"}) {
		t.Errorf("roles = %v", s.Roles)
	}
}

func TestCatalogSharedAcrossEntities(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	users := repositories.NewUserRepository(db)
	projects := repositories.NewProjectRepository(db)
	lookups := repositories.NewLookupRepository(db)
	ctx := context.Background()

	owner := mkUser(t, users, models.UserTypeClient)
	id, err := projects.Create(ctx, owner, &models.ProjectDetails{Title: "Indexer", Status: "Active"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := projects.Update(ctx, id, &models.ProjectUpdate{Skills: []string{"Terraform"}}); err != nil {
		t.Fatalf("update project: %v", err)
	}

	names, err := lookups.CatalogNames(ctx, "skill")
	if err != nil {
		t.Fatalf("catalog names: %v", err)
	}
	found := false
	for _, n := range names {
		if n == "Terraform" {
			found = true
		}
	}
	if !found {
		t.Errorf("lazily created catalog name missing from lookup: %v", names)
	}

	// Deleting the project leaves the catalog row behind.
	if err := projects.Delete(ctx, id); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	names, _ = lookups.CatalogNames(ctx, "skill")
	found = false
	for _, n := range names {
		if n == "Terraform" {
			found = true
		}
	}
	if !found {
		t.Error("catalog rows are append-only and must survive entity deletion")
	}
}

func TestSearchRankingAndPagination(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	users := repositories.NewUserRepository(db)
	projects := repositories.NewProjectRepository(db)
	backend := repositories.NewSearchRepository(db)
	ctx := context.Background()

	owner := mkUser(t, users, models.UserTypeClient)
	marker := fmt.Sprintf("ranktest%d", seq)

	mk := func(title string, skills, roles []string) int64 {
		id, err := projects.Create(ctx, owner, &models.ProjectDetails{Title: title, Status: "Active"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := projects.Update(ctx, id, &models.ProjectUpdate{Skills: skills, Roles: roles}); err != nil {
			t.Fatalf("update: %v", err)
		}
		return id
	}

	// a matches 2 skills and 1 role: score (2+1)*(1+1) = 6.
	// b matches 1 skill and 1 role: score (1+1)*(1+1) = 4.
	// c matches 2 skills but no role: intersection drops it.
	a := mk(marker+" a", []string{marker + "-go", marker + "-sql"}, []string{marker + "-backend"})
	b := mk(marker+" b", []string{marker + "-go"}, []string{marker + "-backend"})
	mk(marker+" c", []string{marker + "-go", marker + "-sql"}, nil)

	f := search.ProjectFilter{
		Skills: []string{marker + "-go", marker + "-sql"},
		Roles:  []string{marker + "-backend"},
	}
	page, err := backend.RankProjects(ctx, f, search.Cursor{})
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d hits, want 2 (intersection must drop the role-less project): %+v", len(page.Items), page.Items)
	}
	if page.Items[0].Details.ID != a || page.Items[0].Score != 6 {
		t.Errorf("first hit = id %d score %d, want id %d score 6", page.Items[0].Details.ID, page.Items[0].Score, a)
	}
	if page.Items[1].Details.ID != b || page.Items[1].Score != 4 {
		t.Errorf("second hit = id %d score %d, want id %d score 4", page.Items[1].Details.ID, page.Items[1].Score, b)
	}

	// Hydration returns full tag lists, not just the matched ones.
	if !reflect.DeepEqual(page.Items[0].Skills, []string{marker + "-go", marker + "-sql"}) {
		t.Errorf("hydrated skills = %v", page.Items[0].Skills)
	}

	// Resume after the first hit: only the second comes back.
	cursor := search.Cursor{LastScore: &page.Items[0].Score, LastID: &page.Items[0].Details.ID}
	page2, err := backend.RankProjects(ctx, f, cursor)
	if err != nil {
		t.Fatalf("rank page 2: %v", err)
	}
	if len(page2.Items) != 1 || page2.Items[0].Details.ID != b {
		t.Errorf("page 2 = %+v, want only project b", page2.Items)
	}
}

func TestSearchTieBreakOrdering(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	users := repositories.NewUserRepository(db)
	projects := repositories.NewProjectRepository(db)
	backend := repositories.NewSearchRepository(db)
	ctx := context.Background()

	owner := mkUser(t, users, models.UserTypeClient)
	marker := fmt.Sprintf("tietest%d", seq)

	// Three projects with the same single matching skill all score (1+1) = 2.
	var ids []int64
	for _, suffix := range []string{"a", "b", "c"} {
		id, err := projects.Create(ctx, owner, &models.ProjectDetails{Title: marker + " " + suffix, Status: "Active"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := projects.Update(ctx, id, &models.ProjectUpdate{Skills: []string{marker + "-py"}}); err != nil {
			t.Fatalf("update: %v", err)
		}
		ids = append(ids, id)
	}

	f := search.ProjectFilter{Skills: []string{marker + "-py"}}
	page, err := backend.RankProjects(ctx, f, search.Cursor{})
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("got %d hits, want 3: %+v", len(page.Items), page.Items)
	}
	for i, item := range page.Items {
		if item.Score != 2 {
			t.Errorf("hit %d score = %d, want 2", i, item.Score)
		}
		if item.Details.ID != ids[i] {
			t.Errorf("hit %d id = %d, want %d (equal scores must order by ascending id)", i, item.Details.ID, ids[i])
		}
	}

	// Resuming mid-tie must return exactly the later tied rows, in order,
	// with nothing skipped or repeated.
	cursor := search.Cursor{LastScore: &page.Items[0].Score, LastID: &page.Items[0].Details.ID}
	page2, err := backend.RankProjects(ctx, f, cursor)
	if err != nil {
		t.Fatalf("rank page 2: %v", err)
	}
	if len(page2.Items) != 2 || page2.Items[0].Details.ID != ids[1] || page2.Items[1].Details.ID != ids[2] {
		t.Fatalf("page 2 = %+v, want projects %d then %d", page2.Items, ids[1], ids[2])
	}

	cursor = search.Cursor{LastScore: &page2.Items[0].Score, LastID: &page2.Items[0].Details.ID}
	page3, err := backend.RankProjects(ctx, f, cursor)
	if err != nil {
		t.Fatalf("rank page 3: %v", err)
	}
	if len(page3.Items) != 1 || page3.Items[0].Details.ID != ids[2] {
		t.Errorf("page 3 = %+v, want only project %d", page3.Items, ids[2])
	}
}

func TestContractsAndSaves(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	users := repositories.NewUserRepository(db)
	students := repositories.NewStudentRepository(db)
	projects := repositories.NewProjectRepository(db)
	contracts := repositories.NewContractRepository(db)
	saves := repositories.NewSaveRepository(db)
	ctx := context.Background()

	owner := mkUser(t, users, models.UserTypeClient)
	studentName := mkUser(t, users, models.UserTypeStudent)
	if _, err := students.Create(ctx, studentName, &models.StudentProfile{FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("create student: %v", err)
	}
	projectID, err := projects.Create(ctx, owner, &models.ProjectDetails{Title: "P", Status: "Active"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	contractID, err := contracts.Create(ctx, projectID, studentName)
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if _, err := contracts.Create(ctx, projectID, studentName); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("duplicate contract = %v, want conflict", err)
	}

	mine, err := contracts.ListByStudent(ctx, studentName)
	if err != nil {
		t.Fatalf("list by student: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != contractID || mine[0].Status != models.ContractStatusPending {
		t.Errorf("student contracts = %+v", mine)
	}
	if mine[0].ProjectTitle != "P" || mine[0].OwnerUsername != owner {
		t.Errorf("hydrated display fields = %+v", mine[0])
	}

	if err := contracts.UpdateStatus(ctx, contractID, models.ContractStatusActive, nil, nil); err != nil {
		t.Fatalf("update status: %v", err)
	}

	// Saves are idempotent.
	if err := saves.SaveProject(ctx, studentName, projectID); err != nil {
		t.Fatalf("save project: %v", err)
	}
	if err := saves.SaveProject(ctx, studentName, projectID); err != nil {
		t.Fatalf("save project again: %v", err)
	}
	saved, err := saves.Saved(ctx, studentName)
	if err != nil {
		t.Fatalf("saved: %v", err)
	}
	if len(saved.Projects) != 1 || saved.Projects[0] != projectID {
		t.Errorf("saved projects = %v", saved.Projects)
	}
	if err := saves.UnsaveProject(ctx, studentName, projectID); err != nil {
		t.Fatalf("unsave: %v", err)
	}
	saved, _ = saves.Saved(ctx, studentName)
	if len(saved.Projects) != 0 {
		t.Errorf("saved projects after unsave = %v", saved.Projects)
	}

	if err := saves.SaveProject(ctx, studentName, 99999999); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("save unknown project = %v, want not found", err)
	}
}

func TestLookupChoices(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	lookups := repositories.NewLookupRepository(db)
	ctx := context.Background()

	durations, err := lookups.Choices(ctx, repositories.ChoiceDurations)
	if err != nil {
		t.Fatalf("choices: %v", err)
	}
	if len(durations) == 0 {
		t.Error("durations should be seeded by migrations")
	}

	if _, err := lookups.Choices(ctx, "users"); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("arbitrary table = %v, want validation error", err)
	}
}
