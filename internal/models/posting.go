package models

import "time"

// Posting is a single advertisement of either kind. Kind-specific attributes
// are pointers: a lecture request carries schedule and fee fields, a program
// carries duration, max capacity and portfolio. Closed is the monotonic
// lifecycle flag ("completed" for requests, "interrupted" for programs);
// there is no reopen operation.
type Posting struct {
	ID          int
	Kind        Kind
	OwnerID     string
	Title       string // subject (requests) or program name, up to 30 characters
	Description string // up to 300 characters
	Audience    string // target audience or organization, up to 20 characters
	Mode        string // "online", "offline" or "both"
	Closed      bool

	// lecture request fields
	Date           *time.Time
	StartTime      *string
	EndTime        *string
	Qualifications *string // up to 100 characters
	Place          *string // required when offline, up to 50 characters
	DetailedAddr   *string // up to 200 characters
	Capacity       *int
	Fee            *int // at least 1

	// program fields
	DurationHours *int
	MaxCapacity   *int
	PortfolioURL  *string
}

// PostingCreateRequest is the creation form shared by both kinds; the handler
// resolves the kind from the URL and the service checks the kind-specific
// required fields.
type PostingCreateRequest struct {
	Title       string `json:"title" validate:"required,max=30"`
	Description string `json:"description" validate:"required,max=300"`
	Audience    string `json:"audience" validate:"required,max=20"`
	Mode        string `json:"mode" validate:"required,oneof=online offline both"`

	Date           *string `json:"date,omitempty"` // 2006-01-02
	StartTime      *string `json:"start_time,omitempty"`
	EndTime        *string `json:"end_time,omitempty"`
	Qualifications *string `json:"qualifications,omitempty" validate:"omitempty,max=100"`
	Place          *string `json:"place,omitempty" validate:"omitempty,max=50"`
	DetailedAddr   *string `json:"detailed_address,omitempty" validate:"omitempty,max=200"`
	Capacity       *int    `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Fee            *int    `json:"fee,omitempty" validate:"omitempty,gte=1"`

	DurationHours *int    `json:"duration_hours,omitempty" validate:"omitempty,gt=0"`
	MaxCapacity   *int    `json:"max_capacity,omitempty" validate:"omitempty,gt=0"`
	PortfolioURL  *string `json:"portfolio_url,omitempty" validate:"omitempty,url"`
}

// PostingUpdateRequest applies partial update semantics: only non-nil fields
// replace the stored values.
type PostingUpdateRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=30"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=300"`
	Audience    *string `json:"audience,omitempty" validate:"omitempty,max=20"`
	Mode        *string `json:"mode,omitempty" validate:"omitempty,oneof=online offline both"`

	Date           *string `json:"date,omitempty"`
	StartTime      *string `json:"start_time,omitempty"`
	EndTime        *string `json:"end_time,omitempty"`
	Qualifications *string `json:"qualifications,omitempty" validate:"omitempty,max=100"`
	Place          *string `json:"place,omitempty" validate:"omitempty,max=50"`
	DetailedAddr   *string `json:"detailed_address,omitempty" validate:"omitempty,max=200"`
	Capacity       *int    `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Fee            *int    `json:"fee,omitempty" validate:"omitempty,gte=1"`

	DurationHours *int    `json:"duration_hours,omitempty" validate:"omitempty,gt=0"`
	MaxCapacity   *int    `json:"max_capacity,omitempty" validate:"omitempty,gt=0"`
	PortfolioURL  *string `json:"portfolio_url,omitempty" validate:"omitempty,url"`
}

// PostingSummary is the list/search projection: long text fields are already
// truncated for display and the date is rendered as a Korean weekday label.
type PostingSummary struct {
	ID          int     `json:"id"`
	Kind        Kind    `json:"kind"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"` // shortened to 50 runes
	Audience    string  `json:"audience"`    // shortened to 10 runes
	Mode        string  `json:"mode"`
	Closed      bool    `json:"closed"`
	DateLabel   *string `json:"date,omitempty"` // "06/01/02 (월)"
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	Place       *string `json:"place,omitempty"`
	Fee         *int    `json:"fee,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`

	DurationHours *int    `json:"duration_hours,omitempty"`
	MaxCapacity   *int    `json:"max_capacity,omitempty"`
	PortfolioURL  *string `json:"portfolio_url,omitempty"`
}

// PostingDetail is the full posting plus the viewer-derived flags. The
// application id is set only when the viewer has applied.
type PostingDetail struct {
	Posting
	IsOwner       bool
	IsApplied     bool
	ApplicationID *int
}
