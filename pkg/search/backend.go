package search

import "context"

// Backend ranks profiles for a filter and cursor. Two implementations
// exist: the in-database backend (repositories) computes the score inside
// the SQL query; the index backend (pkg/index) computes it against the
// external Redis index. A deployment selects exactly one via configuration,
// since the two paths may legitimately disagree on ordering details.
type Backend interface {
	RankProjects(ctx context.Context, f ProjectFilter, c Cursor) (*ProjectPage, error)
	RankStudents(ctx context.Context, f StudentFilter, c Cursor) (*StudentPage, error)
}
