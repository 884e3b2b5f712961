package models

import "time"

// Project statuses. Projects share the status vocabulary with contracts
// only for "Active"/"Completed"; "Closed" is project-specific.
const (
	ProjectStatusActive    = "Active"
	ProjectStatusCompleted = "Completed"
	ProjectStatusClosed    = "Closed"
)

// ProjectDetails holds the scalar columns of a project row.
type ProjectDetails struct {
	ID          int64     `json:"projectId"`
	Owner       string    `json:"ownerUsername,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Duration    string    `json:"duration"`
	TeamSize    string    `json:"size"`
	Status      string    `json:"status"`
	Postal      string    `json:"postal,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Project is a details row plus its tag-set memberships.
type Project struct {
	Details   ProjectDetails `json:"details"`
	Skills    []string       `json:"skills"`
	Roles     []string       `json:"roles"`
	Interests []string       `json:"interests"`
}

// ProjectUpdate carries a partial details update plus full-replacement tag
// sets. Nil slice = untouched, empty slice = cleared.
type ProjectUpdate struct {
	Details   ProjectDetailsPatch `json:"details"`
	Skills    []string            `json:"skills"`
	Roles     []string            `json:"roles"`
	Interests []string            `json:"interests"`
}

// ProjectDetailsPatch is the nullable scalar patch for a project row.
type ProjectDetailsPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	TeamSize    *string `json:"size,omitempty"`
	Status      *string `json:"status,omitempty"`
	Postal      *string `json:"postal,omitempty"`
}
