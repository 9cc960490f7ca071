// Package backend is the typed client for the platform backend services.
// Messages are plain structs carried over gRPC with the JSON codec.
package backend

import (
	"context"
	"strings"
	"time"

	platformgrpc "github.com/civicspace/agora/internal/platform/grpc"
	"github.com/civicspace/agora/internal/platform/requestctx"
	"github.com/civicspace/agora/internal/platform/timeouts"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// UserIDHeader carries the caller identity to the backend.
const UserIDHeader = "x-agora-user-id"

// Fully qualified backend method names.
const (
	methodListProjects     = "/agora.v1.ProjectService/ListProjects"
	methodGetProject       = "/agora.v1.ProjectService/GetProject"
	methodFeaturedProjects = "/agora.v1.ProjectService/FeaturedProjects"
	methodSearchProjects   = "/agora.v1.ProjectService/SearchProjects"
	methodCreateProject    = "/agora.v1.ProjectService/CreateProject"
	methodUpdateProject    = "/agora.v1.ProjectService/UpdateProject"
	methodDeleteProject    = "/agora.v1.ProjectService/DeleteProject"
	methodGetStatistics    = "/agora.v1.ProjectService/GetStatistics"
	methodListUserProjects = "/agora.v1.ProjectService/ListUserProjects"

	methodListProjectComments  = "/agora.v1.CommentService/ListProjectComments"
	methodListTimelineComments = "/agora.v1.CommentService/ListTimelineComments"
	methodCreateComment        = "/agora.v1.CommentService/CreateComment"
	methodRecentComments       = "/agora.v1.CommentService/RecentComments"
	methodSearchComments       = "/agora.v1.CommentService/SearchComments"
	methodListUserComments     = "/agora.v1.CommentService/ListUserComments"

	methodVote       = "/agora.v1.VotingService/Vote"
	methodRemoveVote = "/agora.v1.VotingService/RemoveVote"
	methodHasVoted   = "/agora.v1.VotingService/HasVoted"
	methodUserVotes  = "/agora.v1.VotingService/ListUserVotes"

	methodCreateDonation       = "/agora.v1.DonationService/CreateDonation"
	methodProjectDonationStats = "/agora.v1.DonationService/ProjectDonationStats"
	methodListProjectDonations = "/agora.v1.DonationService/ListProjectDonations"
	methodRecentDonations      = "/agora.v1.DonationService/RecentDonations"
	methodListUserDonations    = "/agora.v1.DonationService/ListUserDonations"
	methodUserDonationTotal    = "/agora.v1.DonationService/UserDonationTotal"

	methodListProjectTimeline = "/agora.v1.TimelineService/ListProjectTimeline"
	methodGetTimelineItem     = "/agora.v1.TimelineService/GetTimelineItem"
	methodRecentTimelineItems = "/agora.v1.TimelineService/RecentTimelineItems"

	methodListUserBadges   = "/agora.v1.BadgeService/ListUserBadges"
	methodSetFeaturedBadge = "/agora.v1.BadgeService/SetFeaturedBadge"

	methodCheckUsername    = "/agora.v1.RegistrationService/CheckUsername"
	methodCheckEmail       = "/agora.v1.RegistrationService/CheckEmail"
	methodValidatePassword = "/agora.v1.RegistrationService/ValidatePassword"
	methodRegister         = "/agora.v1.RegistrationService/Register"
	methodGetProfile       = "/agora.v1.RegistrationService/GetProfile"
)

// Client calls the backend services over one connection.
type Client struct {
	conn    grpc.ClientConnInterface
	timeout time.Duration
}

// NewClient builds a client over conn using the default request timeout.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn, timeout: timeouts.GRPCRequest}
}

// WithTimeout returns a copy of the client with a different request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	clone := *c
	clone.timeout = timeout
	return &clone
}

func (c *Client) invoke(ctx context.Context, method string, req any, resp any) error {
	if c == nil || c.conn == nil {
		return apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "backend is not configured")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if userID := strings.TrimSpace(requestctx.UserIDFromContext(ctx)); userID != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, UserIDHeader, userID)
	}
	if err := c.conn.Invoke(ctx, method, req, resp, grpc.ForceCodec(platformgrpc.JSONCodec{})); err != nil {
		return apperrors.FromGRPC(err)
	}
	return nil
}

type nameRequest struct {
	Name string `json:"name"`
}

type limitRequest struct {
	Limit int `json:"limit"`
}

type projectsResponse struct {
	Projects []Project `json:"projects"`
}

type commentsResponse struct {
	Comments []Comment `json:"comments"`
}

type timelineResponse struct {
	Items []TimelineItem `json:"items"`
}

type donationsResponse struct {
	Donations []Donation `json:"donations"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

type empty struct{}

// ListProjects returns one page of projects.
func (c *Client) ListProjects(ctx context.Context, req ListProjectsRequest) (ListProjectsResponse, error) {
	var resp ListProjectsResponse
	err := c.invoke(ctx, methodListProjects, req, &resp)
	return resp, err
}

// GetProject returns one project.
func (c *Client) GetProject(ctx context.Context, projectID string) (Project, error) {
	var resp Project
	err := c.invoke(ctx, methodGetProject, nameRequest{Name: ProjectName(projectID)}, &resp)
	return resp, err
}

// FeaturedProjects returns up to limit highlighted projects.
func (c *Client) FeaturedProjects(ctx context.Context, limit int) ([]Project, error) {
	var resp projectsResponse
	err := c.invoke(ctx, methodFeaturedProjects, limitRequest{Limit: limit}, &resp)
	return resp.Projects, err
}

// SearchProjects returns projects matching query.
func (c *Client) SearchProjects(ctx context.Context, query string) ([]Project, error) {
	var resp projectsResponse
	err := c.invoke(ctx, methodSearchProjects, struct {
		Query string `json:"query"`
	}{Query: query}, &resp)
	return resp.Projects, err
}

// CreateProject creates a project owned by the caller.
func (c *Client) CreateProject(ctx context.Context, input ProjectInput) (Project, error) {
	var resp Project
	err := c.invoke(ctx, methodCreateProject, input, &resp)
	return resp, err
}

// UpdateProject replaces the editable fields of a project.
func (c *Client) UpdateProject(ctx context.Context, projectID string, input ProjectInput) (Project, error) {
	var resp Project
	err := c.invoke(ctx, methodUpdateProject, struct {
		Name    string       `json:"name"`
		Project ProjectInput `json:"project"`
	}{Name: ProjectName(projectID), Project: input}, &resp)
	return resp, err
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.invoke(ctx, methodDeleteProject, nameRequest{Name: ProjectName(projectID)}, &empty{})
}

// GetStatistics returns platform totals.
func (c *Client) GetStatistics(ctx context.Context) (ProjectStatistics, error) {
	var resp ProjectStatistics
	err := c.invoke(ctx, methodGetStatistics, empty{}, &resp)
	return resp, err
}

// ListProjectComments returns every comment on a project.
func (c *Client) ListProjectComments(ctx context.Context, projectID string) ([]Comment, error) {
	var resp commentsResponse
	err := c.invoke(ctx, methodListProjectComments, nameRequest{Name: ProjectName(projectID)}, &resp)
	return resp.Comments, err
}

// ListTimelineComments returns the comments on one timeline item.
func (c *Client) ListTimelineComments(ctx context.Context, projectID string, itemID string) ([]Comment, error) {
	var resp commentsResponse
	err := c.invoke(ctx, methodListTimelineComments, nameRequest{Name: TimelineItemName(projectID, itemID)}, &resp)
	return resp.Comments, err
}

// CreateComment posts a comment as the caller.
func (c *Client) CreateComment(ctx context.Context, input CommentInput) (Comment, error) {
	var resp Comment
	err := c.invoke(ctx, methodCreateComment, input, &resp)
	return resp, err
}

// RecentComments returns the latest comments across projects.
func (c *Client) RecentComments(ctx context.Context, limit int) ([]Comment, error) {
	var resp commentsResponse
	err := c.invoke(ctx, methodRecentComments, limitRequest{Limit: limit}, &resp)
	return resp.Comments, err
}

// Vote casts the caller's vote on a project.
func (c *Client) Vote(ctx context.Context, projectID string) error {
	return c.invoke(ctx, methodVote, nameRequest{Name: ProjectName(projectID)}, &empty{})
}

// RemoveVote withdraws the caller's vote.
func (c *Client) RemoveVote(ctx context.Context, projectID string) error {
	return c.invoke(ctx, methodRemoveVote, nameRequest{Name: ProjectName(projectID)}, &empty{})
}

// HasVoted reports whether the caller voted on a project.
func (c *Client) HasVoted(ctx context.Context, projectID string) (bool, error) {
	var resp struct {
		Voted bool `json:"voted"`
	}
	err := c.invoke(ctx, methodHasVoted, nameRequest{Name: ProjectName(projectID)}, &resp)
	return resp.Voted, err
}

// CreateDonation records a donation from the caller.
func (c *Client) CreateDonation(ctx context.Context, input DonationInput) (Donation, error) {
	var resp Donation
	err := c.invoke(ctx, methodCreateDonation, input, &resp)
	return resp, err
}

// ProjectDonationStats returns donation totals for a project.
func (c *Client) ProjectDonationStats(ctx context.Context, projectID string) (DonationStats, error) {
	var resp DonationStats
	err := c.invoke(ctx, methodProjectDonationStats, nameRequest{Name: ProjectName(projectID)}, &resp)
	return resp, err
}

// ListProjectDonations returns the donations to a project.
func (c *Client) ListProjectDonations(ctx context.Context, projectID string) ([]Donation, error) {
	var resp donationsResponse
	err := c.invoke(ctx, methodListProjectDonations, nameRequest{Name: ProjectName(projectID)}, &resp)
	return resp.Donations, err
}

// ListProjectTimeline returns a project's timeline in display order.
func (c *Client) ListProjectTimeline(ctx context.Context, projectID string) ([]TimelineItem, error) {
	var resp timelineResponse
	err := c.invoke(ctx, methodListProjectTimeline, nameRequest{Name: ProjectName(projectID)}, &resp)
	return resp.Items, err
}

// GetTimelineItem returns one timeline item by id.
func (c *Client) GetTimelineItem(ctx context.Context, itemID string) (TimelineItem, error) {
	var resp TimelineItem
	err := c.invoke(ctx, methodGetTimelineItem, nameRequest{Name: TimelineItemName("", itemID)}, &resp)
	return resp, err
}

// RecentTimelineItems returns the latest timeline items across projects.
func (c *Client) RecentTimelineItems(ctx context.Context, limit int) ([]TimelineItem, error) {
	var resp timelineResponse
	err := c.invoke(ctx, methodRecentTimelineItems, limitRequest{Limit: limit}, &resp)
	return resp.Items, err
}

// ListUserBadges returns the badges a user earned.
func (c *Client) ListUserBadges(ctx context.Context, userID string) ([]UserBadge, error) {
	var resp struct {
		Badges []UserBadge `json:"badges"`
	}
	err := c.invoke(ctx, methodListUserBadges, nameRequest{Name: UserName(userID)}, &resp)
	return resp.Badges, err
}

// SetFeaturedBadge marks one badge as featured, clearing any other.
func (c *Client) SetFeaturedBadge(ctx context.Context, userID string, badgeID string) error {
	return c.invoke(ctx, methodSetFeaturedBadge, nameRequest{Name: UserBadgeName(userID, badgeID)}, &empty{})
}

// CheckUsername reports whether a username is free.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	var resp availabilityResponse
	err := c.invoke(ctx, methodCheckUsername, struct {
		Username string `json:"username"`
	}{Username: username}, &resp)
	return resp.Available, err
}

// CheckEmail reports whether an email is free.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var resp availabilityResponse
	err := c.invoke(ctx, methodCheckEmail, struct {
		Email string `json:"email"`
	}{Email: email}, &resp)
	return resp.Available, err
}

// ValidatePassword asks the backend to vet a password.
func (c *Client) ValidatePassword(ctx context.Context, password string) (PasswordCheck, error) {
	var resp PasswordCheck
	err := c.invoke(ctx, methodValidatePassword, struct {
		Password string `json:"password"`
	}{Password: password}, &resp)
	return resp, err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, input RegisterInput) (Profile, error) {
	var resp Profile
	err := c.invoke(ctx, methodRegister, input, &resp)
	return resp, err
}

// GetProfile returns a user's profile.
func (c *Client) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var resp Profile
	err := c.invoke(ctx, methodGetProfile, nameRequest{Name: UserName(userID)}, &resp)
	return resp, err
}

// ListUserProjects returns the projects a user owns.
func (c *Client) ListUserProjects(ctx context.Context, userID string) ([]Project, error) {
	var resp projectsResponse
	err := c.invoke(ctx, methodListUserProjects, nameRequest{Name: UserName(userID)}, &resp)
	return resp.Projects, err
}

// SearchComments returns discussion comments matching query.
func (c *Client) SearchComments(ctx context.Context, query string) ([]Comment, error) {
	var resp commentsResponse
	err := c.invoke(ctx, methodSearchComments, struct {
		Query string `json:"query"`
	}{Query: query}, &resp)
	return resp.Comments, err
}

// ListUserComments returns the comments a user wrote.
func (c *Client) ListUserComments(ctx context.Context, userID string) ([]Comment, error) {
	var resp commentsResponse
	err := c.invoke(ctx, methodListUserComments, nameRequest{Name: UserName(userID)}, &resp)
	return resp.Comments, err
}

// ListUserVotes returns the votes a user cast.
func (c *Client) ListUserVotes(ctx context.Context, userID string) ([]Vote, error) {
	var resp struct {
		Votes []Vote `json:"votes"`
	}
	err := c.invoke(ctx, methodUserVotes, nameRequest{Name: UserName(userID)}, &resp)
	return resp.Votes, err
}

// RecentDonations returns the latest donations across projects.
func (c *Client) RecentDonations(ctx context.Context, limit int) ([]Donation, error) {
	var resp donationsResponse
	err := c.invoke(ctx, methodRecentDonations, limitRequest{Limit: limit}, &resp)
	return resp.Donations, err
}

// ListUserDonations returns the donations a user made.
func (c *Client) ListUserDonations(ctx context.Context, userID string) ([]Donation, error) {
	var resp donationsResponse
	err := c.invoke(ctx, methodListUserDonations, nameRequest{Name: UserName(userID)}, &resp)
	return resp.Donations, err
}

// UserDonationTotal returns the total amount a user donated.
func (c *Client) UserDonationTotal(ctx context.Context, userID string) (float64, error) {
	var resp struct {
		Total float64 `json:"total"`
	}
	err := c.invoke(ctx, methodUserDonationTotal, nameRequest{Name: UserName(userID)}, &resp)
	return resp.Total, err
}
