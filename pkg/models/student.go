package models

import "time"

// StudentProfile holds the scalar columns of a student row.
// Pointer fields distinguish "absent from the request" from a legitimate
// empty value on update.
type StudentProfile struct {
	ID        int64      `json:"studentId"`
	Username  string     `json:"username"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	DOB       *time.Time `json:"dob,omitempty"`
	School    *string    `json:"school,omitempty"`
	Degree    *string    `json:"degree,omitempty"`
	Resume    *string    `json:"resume,omitempty"`
	LinkedIn  *string    `json:"linkedin,omitempty"`
	Website   *string    `json:"website,omitempty"`
	Postal    *string    `json:"postal,omitempty"`
	JoinedAt  time.Time  `json:"joinedAt"`
}

// Student is a profile plus its tag-set memberships.
type Student struct {
	Profile   StudentProfile `json:"profile"`
	Skills    []string       `json:"skills"`
	Roles     []string       `json:"roles"`
	Interests []string       `json:"interests"`
	Fields    []string       `json:"fields"`
}

// StudentUpdate carries a partial profile update plus full-replacement
// tag sets. A nil tag-set slice means "leave this tag set alone"; an empty
// non-nil slice clears it.
type StudentUpdate struct {
	Profile   StudentProfilePatch `json:"profile"`
	Skills    []string            `json:"skills"`
	Roles     []string            `json:"roles"`
	Interests []string            `json:"interests"`
	Fields    []string            `json:"fields"`
}

// StudentProfilePatch is the nullable scalar patch for a student row.
type StudentProfilePatch struct {
	FirstName *string    `json:"firstName,omitempty"`
	LastName  *string    `json:"lastName,omitempty"`
	DOB       *time.Time `json:"dob,omitempty"`
	School    *string    `json:"school,omitempty"`
	Degree    *string    `json:"degree,omitempty"`
	Resume    *string    `json:"resume,omitempty"`
	LinkedIn  *string    `json:"linkedin,omitempty"`
	Website   *string    `json:"website,omitempty"`
	Postal    *string    `json:"postal,omitempty"`
}
