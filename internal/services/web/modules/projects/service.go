package projects

import (
	"context"
	"strings"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"github.com/civicspace/agora/internal/services/web/platform/funding"
	"github.com/civicspace/agora/internal/services/web/platform/threads"
	"golang.org/x/sync/errgroup"
)

const pageSize = 12

// donationPresets are the one-click donation amounts in euros.
var donationPresets = []int{5, 10, 20, 50, 100}

var sortOrders = []string{backend.SortNewest, backend.SortVotes, backend.SortFunding, backend.SortOldest}

// Gateway reads and mutates projects and their engagement.
type Gateway interface {
	ListProjects(ctx context.Context, req backend.ListProjectsRequest) (backend.ListProjectsResponse, error)
	GetProject(ctx context.Context, projectID string) (backend.Project, error)
	ListProjectComments(ctx context.Context, projectID string) ([]backend.Comment, error)
	CreateComment(ctx context.Context, input backend.CommentInput) (backend.Comment, error)
	HasVoted(ctx context.Context, projectID string) (bool, error)
	Vote(ctx context.Context, projectID string) error
	RemoveVote(ctx context.Context, projectID string) error
	CreateDonation(ctx context.Context, input backend.DonationInput) (backend.Donation, error)
	ProjectDonationStats(ctx context.Context, projectID string) (backend.DonationStats, error)
	ListProjectDonations(ctx context.Context, projectID string) ([]backend.Donation, error)
	ListProjectTimeline(ctx context.Context, projectID string) ([]backend.TimelineItem, error)
}

type service struct {
	gateway Gateway
}

func newService(gateway Gateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

// normalizeSort maps unknown sort values to newest.
func normalizeSort(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, order := range sortOrders {
		if raw == order {
			return order
		}
	}
	return backend.SortNewest
}

// normalizeCategory returns the canonical category name, or "" for every
// value that is not a known category.
func normalizeCategory(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, category := range backend.Categories {
		if strings.EqualFold(raw, category) {
			return category
		}
	}
	return ""
}

func (s service) list(ctx context.Context, category string, sort string, pageToken string) (backend.ListProjectsResponse, error) {
	return s.gateway.ListProjects(ctx, backend.ListProjectsRequest{
		Category:  category,
		Sort:      sort,
		PageSize:  pageSize,
		PageToken: strings.TrimSpace(pageToken),
	})
}

func (s service) project(ctx context.Context, projectID string) (backend.Project, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return backend.Project{}, apperrors.EK(apperrors.KindNotFound, "error.project.not_found", "project id is required")
	}
	return s.gateway.GetProject(ctx, projectID)
}

// detail is everything the project page shows.
type detail struct {
	Project   backend.Project
	Stats     backend.DonationStats
	Donations []backend.Donation
	Timeline  []backend.TimelineItem
	Comments  threads.Grouping
	HasVoted  bool
}

// loadDetail fetches the project page concurrently. The vote state is only
// read for signed-in visitors.
func (s service) loadDetail(ctx context.Context, projectID string, signedIn bool, project func() (backend.Project, error)) (detail, error) {
	var d detail
	var comments []backend.Comment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Project, err = project()
		return err
	})
	g.Go(func() error {
		var err error
		d.Stats, err = s.gateway.ProjectDonationStats(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		d.Donations, err = s.gateway.ListProjectDonations(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		d.Timeline, err = s.gateway.ListProjectTimeline(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.gateway.ListProjectComments(gctx, projectID)
		return err
	})
	if signedIn {
		g.Go(func() error {
			var err error
			d.HasVoted, err = s.gateway.HasVoted(gctx, projectID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return detail{}, err
	}
	d.Comments = threads.Partition(comments)
	return d, nil
}

// toggleVote casts the vote when the visitor has none and removes it
// otherwise. It reports whether the visitor supports the project afterwards.
func (s service) toggleVote(ctx context.Context, projectID string) (bool, error) {
	voted, err := s.gateway.HasVoted(ctx, projectID)
	if err != nil {
		return false, err
	}
	if voted {
		return false, s.gateway.RemoveVote(ctx, projectID)
	}
	return true, s.gateway.Vote(ctx, projectID)
}

// donationForm is the submitted donation dialog.
type donationForm struct {
	Amount    string
	Preset    string
	Message   string
	Anonymous bool
}

// parseDonation validates a donation locally. A blank amount falls back to
// the chosen preset.
func parseDonation(projectID string, form donationForm) (backend.DonationInput, error) {
	raw := strings.TrimSpace(form.Amount)
	if raw == "" {
		raw = strings.TrimSpace(form.Preset)
	}
	amount, ok := funding.ParseAmount(raw)
	if !ok {
		return backend.DonationInput{}, apperrors.EK(apperrors.KindInvalidInput, "web.donate.invalid_amount", "donation amount must be a positive number")
	}
	return backend.DonationInput{
		ProjectID:   projectID,
		Amount:      amount,
		Currency:    backend.CurrencyEUR,
		Message:     strings.TrimSpace(form.Message),
		IsAnonymous: form.Anonymous,
	}, nil
}

func (s service) donate(ctx context.Context, input backend.DonationInput) error {
	_, err := s.gateway.CreateDonation(ctx, input)
	return err
}

func (s service) comment(ctx context.Context, input backend.CommentInput) error {
	_, err := s.gateway.CreateComment(ctx, input)
	return err
}
