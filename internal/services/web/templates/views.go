package templates

import (
	"html/template"
	"time"

	"github.com/civicspace/agora/internal/services/web/platform/funding"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
)

// Shell is the application chrome around every page.
type Shell struct {
	Title     string
	SiteName  string
	Lang      string
	Nav       []NavLink
	Languages []webi18n.LanguageOption
	Viewer    Viewer
	Toast     *Toast
	Content   template.HTML
}

// NavLink is one entry of the main navigation.
type NavLink struct {
	Label  string
	URL    string
	Active bool
}

// Viewer describes the visitor for the shell.
type Viewer struct {
	SignedIn    bool
	DisplayName string
	ProfileURL  string
	SignInURL   string
	SignOutURL  string
	RegisterURL string
	CreateURL   string
}

// Toast is a one-shot notice rendered by the shell.
type Toast struct {
	Kind    string
	Message string
}

// ErrorState is the inline notice shown in place of failed content.
type ErrorState struct {
	Status  int
	Title   string
	Message string
	HomeURL string
}

// SignedOut is the prompt shown to anonymous visitors of gated pages.
type SignedOut struct {
	SignInURL   string
	RegisterURL string
}

// Recovery is the standalone page shown after an unrecoverable fault.
type Recovery struct {
	Lang      string
	SiteName  string
	ReloadURL string
}

// ProjectCard is the summary of a project used by every listing.
type ProjectCard struct {
	ID          string
	URL         string
	Title       string
	Summary     string
	Category    string
	Status      string
	OwnerName   string
	Votes       int
	Comments    int
	Tags        []string
	Funding     funding.Progress
	CreatedAt   time.Time
	DiscussURL  string
	Description string
}

// CommentItem is one rendered comment.
type CommentItem struct {
	ID           string
	Author       string
	Content      string
	CreatedAt    time.Time
	ProjectTitle string
	ProjectURL   string
}

// ThreadView is a top-level comment with its direct replies.
type ThreadView struct {
	Comment CommentItem
	Replies []CommentItem
}

// DonationItem is one rendered donation.
type DonationItem struct {
	Donor        string
	Anonymous    bool
	Amount       string
	Message      string
	CreatedAt    time.Time
	ProjectTitle string
	ProjectURL   string
}

// ActivityItem is one entry of a recent activity feed.
type ActivityItem struct {
	Icon         string
	Title        string
	URL          string
	ProjectTitle string
	ProjectURL   string
	Comments     int
	CreatedAt    time.Time
}

// Option is a select or filter choice.
type Option struct {
	Value    string
	LabelKey string
	URL      string
	Selected bool
}

// CommentForm posts a new comment or reply.
type CommentForm struct {
	Action         string
	ParentID       string
	TimelineItemID string
	SignedIn       bool
	SignInURL      string
	MaxLength      int
}

// HomePage is the landing page.
type HomePage struct {
	SiteName      string
	TotalProjects int
	TotalFunding  string
	TotalVotes    int
	Featured      []ProjectCard
	Activity      []ActivityItem
	Donations     []DonationItem
	Comments      []CommentItem
	Chart         template.HTML
	ProjectsURL   string
	CreateURL     string
}

// ChartBar is one bar of the category chart.
type ChartBar struct {
	Label string
	Key   string
	Value int
	Width string
}

// Chart is the category bar chart widget.
type Chart struct {
	Bars []ChartBar
}

// Scene is the 3D preview widget of an infrastructure project.
type Scene struct {
	Title    string
	Floors   []int
	Progress string
	Lit      int
}

// ProjectsPage is the project listing.
type ProjectsPage struct {
	Projects   []ProjectCard
	Categories []Option
	Sorts      []Option
	Category   string
	Sort       string
	CreateURL  string
	SignedIn   bool
	NextURL    string
}

// ShareLink is one share target of a project.
type ShareLink struct {
	Network string
	Label   string
	URL     string
}

// TimelineEntry is one item of a project timeline.
type TimelineEntry struct {
	ID          string
	Icon        string
	Title       string
	Description string
	Completed   bool
	TargetDate  time.Time
	DoneDate    time.Time
	URL         string
	Comments    int
}

// DonateForm carries the donation dialog state.
type DonateForm struct {
	Action  string
	Presets []int
	Amount  string
	Message string
	Error   string
}

// ProjectPage is the project detail page.
type ProjectPage struct {
	Project       ProjectCard
	SignedIn      bool
	SignInURL     string
	CanEdit       bool
	EditURL       string
	DeleteURL     string
	HasVoted      bool
	VoteURL       string
	Donate        DonateForm
	DonationTotal string
	DonationCount int
	DonorCount    int
	Donations     []DonationItem
	Timeline      []TimelineEntry
	Threads       []ThreadView
	CommentCount  int
	CommentForm   CommentForm
	Share         []ShareLink
	Scene         template.HTML
}

// ProjectForm is the create and edit form.
type ProjectForm struct {
	Action      string
	CancelURL   string
	IsEdit      bool
	Title       string
	Description string
	Category    string
	Budget      string
	Tags        string
	Status      string
	Categories  []Option
	Statuses    []Option
	Errors      map[string]string
}

// ForumItem is one discussion in the forum.
type ForumItem struct {
	ID           string
	URL          string
	Icon         string
	Title        string
	Description  string
	ProjectTitle string
	ProjectURL   string
	Comments     int
	CreatedAt    time.Time
	IsProject    bool
}

// ForumPage is the discussion listing.
type ForumPage struct {
	Items []ForumItem
	Sorts []Option
	Sort  string
}

// ThreadPage is one discussion with its comments.
type ThreadPage struct {
	Item         ForumItem
	Threads      []ThreadView
	CommentCount int
	CommentForm  CommentForm
	ForumURL     string
}

// SearchPage lists project and discussion matches.
type SearchPage struct {
	Query    string
	Searched bool
	Projects []ProjectCard
	Comments []CommentItem
	Action   string
}

// PasswordStrength is the password meter state.
type PasswordStrength struct {
	Level string
	Score int
}

// RegisterPage is the registration form.
type RegisterPage struct {
	Action      string
	Username    string
	Email       string
	DisplayName string
	Bio         string
	Location    string
	Terms       bool
	Errors      map[string]string
	Strength    *PasswordStrength
	Welcome     *RegisterWelcome
}

// RegisterWelcome is shown after a successful registration.
type RegisterWelcome struct {
	DisplayName string
	SignInURL   string
}

// UsernameCheck is the live availability fragment.
type UsernameCheck struct {
	Available bool
	Key       string
}

// BadgeView is one earned badge.
type BadgeView struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string
	Featured    bool
	FeatureURL  string
	EarnedAt    time.Time
}

// VoteItem is one project the user voted for.
type VoteItem struct {
	ProjectTitle string
	ProjectURL   string
	CreatedAt    time.Time
}

// ProfilePage is the signed-in user's profile.
type ProfilePage struct {
	DisplayName   string
	Username      string
	Bio           string
	Location      string
	MemberSince   time.Time
	Featured      *BadgeView
	Badges        []BadgeView
	Projects      []ProjectCard
	Votes         []VoteItem
	Donations     []DonationItem
	DonationTotal string
	Comments      []CommentItem
}

// AboutPage is the static about page.
type AboutPage struct {
	SiteName    string
	ProjectsURL string
	RegisterURL string
}
