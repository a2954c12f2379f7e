// Package models contains the domain structures of the lecture marketplace:
// users, postings (lecture requests and programs) and applications, together
// with the small kind descriptor that parameterizes the matching engine over
// the two posting variants.
package models

import "fmt"

// Role is the account type of a user. Requesters own lecture requests,
// instructors own programs; each may only apply to the other side's postings.
type Role string

const (
	// RoleInstructor marks users who publish programs.
	RoleInstructor Role = "instructor"
	// RoleRequester marks users who publish lecture requests.
	RoleRequester Role = "requester"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleInstructor || r == RoleRequester
}

// Kind identifies a posting variant. All engine operations are parameterized
// by a Kind instead of being duplicated per variant.
type Kind string

const (
	// KindLectureRequest is a requester looking for an instructor.
	KindLectureRequest Kind = "lecture_request"
	// KindProgram is an instructor advertising a course offering.
	KindProgram Kind = "program"
)

// ParseKind maps the URL path segment to a Kind.
func ParseKind(segment string) (Kind, error) {
	switch segment {
	case "requests":
		return KindLectureRequest, nil
	case "programs":
		return KindProgram, nil
	default:
		return "", fmt.Errorf("unknown posting kind: %q", segment)
	}
}

// OwnerRole is the role required to create and manage postings of this kind.
func (k Kind) OwnerRole() Role {
	if k == KindProgram {
		return RoleInstructor
	}
	return RoleRequester
}

// ApplicantRole is the complement of OwnerRole: the role allowed to apply.
func (k Kind) ApplicantRole() Role {
	if k == KindProgram {
		return RoleRequester
	}
	return RoleInstructor
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindLectureRequest || k == KindProgram
}
