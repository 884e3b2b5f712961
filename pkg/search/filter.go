package search

import (
	"fmt"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/models"
)

// DefaultPageSize is the fixed result page size.
const DefaultPageSize = 20

// ProjectFilter holds the optional predicates of a project search. Pointer
// scalars distinguish "unconstrained" from a legitimate zero value; a nil or
// empty tag list means that tag set does not constrain the search.
type ProjectFilter struct {
	Title     *string  `json:"title,omitempty"`
	Duration  *string  `json:"duration,omitempty"`
	TeamSize  *string  `json:"size,omitempty"`
	Status    *string  `json:"status,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// StudentFilter holds the optional predicates of a student search.
type StudentFilter struct {
	Name      *string  `json:"name,omitempty"`
	Degree    *string  `json:"degree,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// TagFiltered reports whether any tag-set filter is non-empty.
func (f ProjectFilter) TagFiltered() bool {
	return len(f.Skills) > 0 || len(f.Roles) > 0 || len(f.Interests) > 0
}

// TagFiltered reports whether any tag-set filter is non-empty.
func (f StudentFilter) TagFiltered() bool {
	return len(f.Skills) > 0 || len(f.Roles) > 0 || len(f.Interests) > 0
}

// ProjectHit is one ranked project search result.
type ProjectHit struct {
	models.Project
	Score int `json:"score"`
}

// StudentHit is one ranked student search result.
type StudentHit struct {
	models.Student
	Score int `json:"score"`
}

// ProjectPage is one page of ranked project results plus the resume point
// for the following page. Next is nil only when the page is empty.
type ProjectPage struct {
	Items []ProjectHit `json:"items"`
	Next  *Cursor      `json:"next,omitempty"`
}

// StudentPage is one page of ranked student results.
type StudentPage struct {
	Items []StudentHit `json:"items"`
	Next  *Cursor      `json:"next,omitempty"`
}

// ValidateCursor enforces the keyset contract: when tag filters rank the
// result, a resume point needs both the score and the id; without tag
// filters the score is constantly zero and only the id matters.
func ValidateCursor(tagFiltered bool, c Cursor) error {
	if c.Empty() {
		return nil
	}
	if tagFiltered && (c.LastScore == nil || c.LastID == nil) {
		return fmt.Errorf("%w: cursor requires both lastScore and lastId for a ranked search", apperrors.ErrValidation)
	}
	if c.LastID == nil {
		return fmt.Errorf("%w: cursor requires lastId", apperrors.ErrValidation)
	}
	return nil
}
