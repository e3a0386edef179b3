package model

import "time"

// Source identifies where an application came from.
type Source string

const (
	SourceDirect   Source = "direct"
	SourceReferral Source = "referral"
	SourceLinkedIn Source = "linkedin"
	SourceIndeed   Source = "indeed"
	SourceSeek     Source = "seek"
	SourceAgency   Source = "agency"
	SourceOther    Source = "other"
)

// Sources lists all application sources in display order.
var Sources = []Source{
	SourceDirect,
	SourceReferral,
	SourceLinkedIn,
	SourceIndeed,
	SourceSeek,
	SourceAgency,
	SourceOther,
}

// JobRef identifies the job opening an application targets.
type JobRef struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Department string `json:"department,omitempty"`
}

// Scores holds the 0-100 assessment scores for an applicant.
type Scores struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Cultural   int `json:"cultural"`
	Overall    int `json:"overall"`
}

// Note is a recruiter comment on an applicant. ID, Author, and CreatedAt
// are assigned server-side.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity is one entry in an applicant's history timeline.
type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Actor       string    `json:"actor,omitempty"`
}

// Applicant is one candidate's application record against one job opening.
// The remote store owns durable state; local copies are re-derived by
// reloading after each confirmed mutation.
type Applicant struct {
	ID string `json:"id"`

	// Candidate profile.
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Headline     string `json:"headline,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	IsIndigenous bool   `json:"is_indigenous,omitempty"`
	Location     string `json:"location,omitempty"`

	Job    JobRef  `json:"job"`
	Stage  StageID `json:"stage"`
	Source Source  `json:"source"`

	AppliedAt      time.Time `json:"applied_at"`
	LastActivityAt time.Time `json:"last_activity_at"`

	// Rating is an integer star rating in [0,5]; 0 means unrated.
	Rating int    `json:"rating"`
	Scores Scores `json:"scores"`

	Tags       []string   `json:"tags,omitempty"`
	Notes      []Note     `json:"notes,omitempty"`
	Activities []Activity `json:"activities,omitempty"`

	ResumeURL    string `json:"resume_url,omitempty"`
	IsBookmarked bool   `json:"is_bookmarked"`
}
