package backend

import "time"

// Project statuses.
const (
	StatusPlanning   = "planning"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Categories lists the project categories in display order.
var Categories = []string{
	"Infrastructure",
	"Community",
	"Education",
	"Environment",
	"Culture",
	"Sport",
	"Technology",
	"Health",
}

// Milestone types for timeline items.
const (
	MilestonePlanning   = "planning"
	MilestoneMilestone  = "milestone"
	MilestoneUpdate     = "update"
	MilestoneCompletion = "completion"
	MilestoneOther      = "other"
)

// CurrencyEUR is the only donation currency.
const CurrencyEUR = "EUR"

// Project is a community improvement proposal.
type Project struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	OwnerName      string    `json:"owner_name,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	Budget         float64   `json:"budget"`
	CurrentFunding *float64  `json:"current_funding,omitempty"`
	VoteCount      int       `json:"vote_count"`
	CommentCount   int       `json:"comment_count"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Funding returns the current funding, treating a missing value as zero.
func (p Project) Funding() float64 {
	if p.CurrentFunding == nil {
		return 0
	}
	return *p.CurrentFunding
}

// ProjectInput carries the editable project fields.
type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Budget      float64  `json:"budget"`
	Status      string   `json:"status,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Comment is a remark on a project or one of its timeline items.
type Comment struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	TimelineItemID  *string   `json:"timeline_item_id,omitempty"`
	ParentCommentID *string   `json:"parent_comment_id,omitempty"`
	AuthorID        string    `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
}

// ParentID returns the parent comment id or "" for top-level comments.
func (c Comment) ParentID() string {
	if c.ParentCommentID == nil {
		return ""
	}
	return *c.ParentCommentID
}

// CommentInput carries a new comment.
type CommentInput struct {
	ProjectID       string `json:"project_id"`
	TimelineItemID  string `json:"timeline_item_id,omitempty"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
	Content         string `json:"content"`
}

// TimelineItem is one entry of a project's progress timeline.
type TimelineItem struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	ProjectTitle  string     `json:"project_title,omitempty"`
	AuthorID      string     `json:"author_id"`
	AuthorName    string     `json:"author_name,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	MilestoneType string     `json:"milestone_type"`
	IsCompleted   bool       `json:"is_completed"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	OrderIndex    int        `json:"order_index"`
	CommentCount  int        `json:"comment_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Vote is a user's support for a project.
type Vote struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	ProjectTitle string    `json:"project_title,omitempty"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Badge is an achievement definition.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// UserBadge is a badge earned by a user.
type UserBadge struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BadgeID    string    `json:"badge_id"`
	Badge      Badge     `json:"badge"`
	EarnedAt   time.Time `json:"earned_at"`
	IsFeatured bool      `json:"is_featured"`
}

// Donation is a pledge towards a project.
type Donation struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	UserID      string    `json:"user_id"`
	DonorName   string    `json:"donor_name,omitempty"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Message     string    `json:"message,omitempty"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

// DonationInput carries a new donation.
type DonationInput struct {
	ProjectID   string  `json:"project_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Message     string  `json:"message,omitempty"`
	IsAnonymous bool    `json:"is_anonymous"`
}

// DonationStats aggregates donations for one project.
type DonationStats struct {
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int     `json:"donation_count"`
	DonorCount    int     `json:"donor_count"`
}

// Profile is a registered user's public profile.
type Profile struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisterInput carries a registration form.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio,omitempty"`
	Location    string `json:"location,omitempty"`
}

// PasswordCheck is the backend verdict on a password.
type PasswordCheck struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ProjectStatistics summarizes the whole platform.
type ProjectStatistics struct {
	TotalProjects int            `json:"total_projects"`
	TotalFunding  float64        `json:"total_funding"`
	TotalVotes    int            `json:"total_votes"`
	ByCategory    map[string]int `json:"by_category"`
}

// Project list sort orders.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortVotes   = "votes"
	SortFunding = "funding"
)

// ListProjectsRequest filters and pages the project list.
type ListProjectsRequest struct {
	Category  string `json:"category,omitempty"`
	Sort      string `json:"sort,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// ListProjectsResponse is one page of projects.
type ListProjectsResponse struct {
	Projects      []Project `json:"projects"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}
