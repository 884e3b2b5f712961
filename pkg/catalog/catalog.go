// Package catalog implements tag-set reconciliation against the shared
// catalog tables. A tag set (skills, roles, interests, fields) is a
// many-to-many relation between a profile row and a deduplicated catalog of
// names; Reconcile computes the statements that make the junction rows match
// a caller-supplied target set exactly.
package catalog

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
)

// Kind names one tag-set category.
type Kind string

const (
	KindSkill    Kind = "skill"
	KindRole     Kind = "role"
	KindInterest Kind = "interest"
	KindField    Kind = "field"
)

// Entity names the profile table that owns the junction rows.
type Entity string

const (
	EntityProject Entity = "project"
	EntityStudent Entity = "student"
)

// kindsByEntity lists which tag sets each entity carries. Fields (majors)
// exist only on students.
var kindsByEntity = map[Entity][]Kind{
	EntityProject: {KindSkill, KindRole, KindInterest},
	EntityStudent: {KindSkill, KindRole, KindInterest, KindField},
}

// Kinds returns the tag-set kinds carried by e, in stable order.
func Kinds(e Entity) []Kind {
	return kindsByEntity[e]
}

// Table returns the catalog table for the kind, e.g. "skill" -> "skills".
func (k Kind) Table() string {
	return inflection.Plural(string(k))
}

// IDColumn returns the catalog primary key column, e.g. "skill_id".
func (k Kind) IDColumn() string {
	return string(k) + "_id"
}

// IDColumn returns the entity primary key column, e.g. "project_id".
func (e Entity) IDColumn() string {
	return string(e) + "_id"
}

// Table returns the entity table, e.g. "project" -> "projects".
func (e Entity) Table() string {
	return inflection.Plural(string(e))
}

// JunctionTable returns the junction table between e and k,
// e.g. ("project", "skill") -> "project_skills".
func JunctionTable(e Entity, k Kind) string {
	return string(e) + "_" + k.Table()
}

func validKind(e Entity, k Kind) bool {
	for _, known := range kindsByEntity[e] {
		if known == k {
			return true
		}
	}
	return false
}

// NormalizeTags trims whitespace, drops empties, and deduplicates while
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func validateEntity(e Entity, k Kind) error {
	if _, ok := kindsByEntity[e]; !ok {
		return fmt.Errorf("%w: unknown entity %q", apperrors.ErrValidation, e)
	}
	if !validKind(e, k) {
		return fmt.Errorf("%w: entity %q has no tag set %q", apperrors.ErrValidation, e, k)
	}
	return nil
}
