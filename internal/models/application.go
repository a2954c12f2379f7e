package models

import "time"

// Status is the acceptance state of an application. The only legal
// transitions are pending -> accepted and pending -> rejected; decided
// applications stay decided.
type Status string

const (
	// StatusPending is the initial state of every application.
	StatusPending Status = "pending"
	// StatusAccepted means the posting owner accepted the application.
	StatusAccepted Status = "accepted"
	// StatusRejected means the posting owner rejected the application.
	StatusRejected Status = "rejected"
)

// Label is the short Korean state name shown next to a single application.
func (s Status) Label() string {
	switch s {
	case StatusAccepted:
		return "수락"
	case StatusRejected:
		return "거절"
	default:
		return "대기"
	}
}

// MatchingLabel is the derived matching-status display label.
func (s Status) MatchingLabel() string {
	switch s {
	case StatusAccepted:
		return "매칭 완료"
	case StatusRejected:
		return "매칭 실패"
	default:
		return "대기"
	}
}

// Application links an applicant to a posting of the complementary role.
// The snapshot fields are copied from the posting and the applicant at
// creation time and are deliberately never refreshed afterwards: the owner
// sees the contact data as it was when the application was made, even if the
// applicant later edits their profile.
type Application struct {
	ID          int
	Kind        Kind
	PostingID   int
	ApplicantID string
	Status      Status
	CreatedAt   time.Time

	// creation-time snapshots, immutable
	PostingTitle   string
	ApplicantName  string
	ApplicantPhone string
	ApplicantEmail string

	// proposal fields supplied by the applicant
	Fee          *int
	Date         *time.Time
	StartTime    *string
	EndTime      *string
	Mode         *string
	Address      *string
	DetailedAddr *string
	Audience     *string
	Personnel    *int
	BirthDate    *time.Time
	Gender       *string // "남성" or "여성"
}

// ApplicationCreateRequest is the apply form. PostingID references an
// existing posting; the service fills the snapshots.
type ApplicationCreateRequest struct {
	PostingID int `json:"posting_id" validate:"required,gt=0"`

	Fee          *int    `json:"fee,omitempty" validate:"omitempty,gte=1"`
	Date         *string `json:"date,omitempty"` // 2006-01-02
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	Mode         *string `json:"mode,omitempty" validate:"omitempty,oneof=online offline both"`
	Address      *string `json:"address,omitempty"`
	DetailedAddr *string `json:"detailed_address,omitempty"`
	Audience     *string `json:"audience,omitempty" validate:"omitempty,max=20"`
	Personnel    *int    `json:"personnel,omitempty" validate:"omitempty,gt=0"`
	BirthDate    *string `json:"birth_date,omitempty"` // 2006-01-02
	Gender       *string `json:"gender,omitempty" validate:"omitempty,oneof=남성 여성"`
}

// ApplicationUpdateRequest updates the proposal fields only; status and
// snapshots are out of the applicant's reach.
type ApplicationUpdateRequest struct {
	Fee          *int    `json:"fee,omitempty" validate:"omitempty,gte=1"`
	Date         *string `json:"date,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	Mode         *string `json:"mode,omitempty" validate:"omitempty,oneof=online offline both"`
	Address      *string `json:"address,omitempty"`
	DetailedAddr *string `json:"detailed_address,omitempty"`
	Audience     *string `json:"audience,omitempty" validate:"omitempty,max=20"`
	Personnel    *int    `json:"personnel,omitempty" validate:"omitempty,gt=0"`
	Gender       *string `json:"gender,omitempty" validate:"omitempty,oneof=남성 여성"`
}

// ApplicationWithStatus is an application annotated with its derived
// matching-status label, as listed for the posting owner.
type ApplicationWithStatus struct {
	Application
	MatchingStatus string `json:"matching_status"`
}

// ApplicantEntry is one row of an applicant's own history: the application
// joined with the current posting fields.
type ApplicantEntry struct {
	Application
	Posting        Posting `json:"posting"`
	MatchingStatus string  `json:"matching_status"`
}
