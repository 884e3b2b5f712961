package models

import "time"

// Contract statuses form a small fixed enum.
const (
	ContractStatusPending   = "Pending"
	ContractStatusActive    = "Active"
	ContractStatusCompleted = "Completed"
	ContractStatusCancelled = "Cancelled"
)

// ValidContractStatus reports whether s is a known contract status.
func ValidContractStatus(s string) bool {
	switch s {
	case ContractStatusPending, ContractStatusActive, ContractStatusCompleted, ContractStatusCancelled:
		return true
	}
	return false
}

// Contract links a project and a student.
type Contract struct {
	ID        int64      `json:"contractId"`
	ProjectID int64      `json:"projectId"`
	StudentID int64      `json:"studentId"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// Display-only fields hydrated on list queries.
	ProjectTitle    string `json:"projectTitle,omitempty"`
	StudentUsername string `json:"studentUsername,omitempty"`
	StudentName     string `json:"studentName,omitempty"`
	OwnerUsername   string `json:"ownerUsername,omitempty"`
}
