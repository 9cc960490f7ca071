package forum

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"github.com/civicspace/agora/internal/services/web/platform/paging"
	"github.com/civicspace/agora/internal/services/web/platform/threads"
	"github.com/civicspace/agora/internal/services/web/routepath"
	"golang.org/x/sync/errgroup"
)

const (
	timelineLimit = 50
	projectLimit  = 50
	projectPages  = 3

	sortMostActive = "most_active"
)

var sortOrders = []string{backend.SortNewest, backend.SortOldest, sortMostActive}

// Gateway reads discussions and posts replies.
type Gateway interface {
	RecentTimelineItems(ctx context.Context, limit int) ([]backend.TimelineItem, error)
	ListProjects(ctx context.Context, req backend.ListProjectsRequest) (backend.ListProjectsResponse, error)
	GetTimelineItem(ctx context.Context, itemID string) (backend.TimelineItem, error)
	GetProject(ctx context.Context, projectID string) (backend.Project, error)
	ListTimelineComments(ctx context.Context, projectID string, itemID string) ([]backend.Comment, error)
	ListProjectComments(ctx context.Context, projectID string) ([]backend.Comment, error)
	CreateComment(ctx context.Context, input backend.CommentInput) (backend.Comment, error)
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

// discussion is one forum entry: a timeline item or a whole project.
type discussion struct {
	ID           string
	ProjectID    string
	ProjectTitle string
	Title        string
	Description  string
	Milestone    string
	Comments     int
	CreatedAt    time.Time
	IsProject    bool
}

func normalizeSort(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if slices.Contains(sortOrders, raw) {
		return raw
	}
	return backend.SortNewest
}

// list merges recent timeline items with one discussion per project.
func (s service) list(ctx context.Context, sort string) ([]discussion, error) {
	var items []backend.TimelineItem
	var projects []backend.Project
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.gateway.RecentTimelineItems(gctx, timelineLimit)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = paging.Collect(gctx, paging.Options{Limit: projectLimit, MaxPages: projectPages}, func(ctx context.Context, token string) ([]backend.Project, string, error) {
			resp, err := s.gateway.ListProjects(ctx, backend.ListProjectsRequest{Sort: backend.SortNewest, PageSize: projectLimit, PageToken: token})
			return resp.Projects, resp.NextPageToken, err
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(projects))
	out := make([]discussion, 0, len(items)+len(projects))
	for _, p := range projects {
		titles[p.ID] = p.Title
		out = append(out, projectDiscussion(p))
	}
	for _, item := range items {
		d := itemDiscussion(item)
		if d.ProjectTitle == "" {
			d.ProjectTitle = titles[item.ProjectID]
		}
		out = append(out, d)
	}
	sortDiscussions(out, sort)
	return out, nil
}

func projectDiscussion(p backend.Project) discussion {
	return discussion{
		ID:           routepath.ProjectDiscussionPrefix + p.ID,
		ProjectID:    p.ID,
		ProjectTitle: p.Title,
		Title:        p.Title,
		Description:  p.Description,
		Milestone:    backend.MilestoneOther,
		Comments:     p.CommentCount,
		CreatedAt:    p.CreatedAt,
		IsProject:    true,
	}
}

func itemDiscussion(item backend.TimelineItem) discussion {
	return discussion{
		ID:           item.ID,
		ProjectID:    item.ProjectID,
		ProjectTitle: item.ProjectTitle,
		Title:        item.Title,
		Description:  item.Description,
		Milestone:    item.MilestoneType,
		Comments:     item.CommentCount,
		CreatedAt:    item.CreatedAt,
	}
}

// sortDiscussions orders in place. Ties fall back to newest first and then
// to the id so the order is stable across requests.
func sortDiscussions(items []discussion, sort string) {
	newest := func(a, b discussion) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
	slices.SortFunc(items, func(a, b discussion) int {
		switch sort {
		case backend.SortOldest:
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		case sortMostActive:
			if c := cmp.Compare(b.Comments, a.Comments); c != 0 {
				return c
			}
		}
		return newest(a, b)
	})
}

// thread is one discussion with its grouped comments.
type thread struct {
	Discussion discussion
	Comments   threads.Grouping
}

// thread loads a discussion. Project discussions carry the whole project's
// comments; timeline discussions carry the item's.
func (s service) thread(ctx context.Context, id string) (thread, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return thread{}, apperrors.EK(apperrors.KindNotFound, "error.discussion.not_found", "discussion id is required")
	}
	if projectID, ok := routepath.ProjectIDFromDiscussion(id); ok {
		return s.projectThread(ctx, projectID)
	}
	item, err := s.gateway.GetTimelineItem(ctx, id)
	if err != nil {
		return thread{}, err
	}
	d := itemDiscussion(item)
	var comments []backend.Comment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = s.gateway.ListTimelineComments(gctx, item.ProjectID, item.ID)
		return err
	})
	if d.ProjectTitle == "" {
		g.Go(func() error {
			p, err := s.gateway.GetProject(gctx, item.ProjectID)
			d.ProjectTitle = p.Title
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return thread{}, err
	}
	return thread{Discussion: d, Comments: threads.Partition(comments)}, nil
}

func (s service) projectThread(ctx context.Context, projectID string) (thread, error) {
	var project backend.Project
	var comments []backend.Comment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		project, err = s.gateway.GetProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.gateway.ListProjectComments(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return thread{}, err
	}
	return thread{Discussion: projectDiscussion(project), Comments: threads.Partition(comments)}, nil
}

// reply posts a comment on a discussion. Timeline replies are filed under
// the item's project.
func (s service) reply(ctx context.Context, id string, parentID string, content string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.EK(apperrors.KindNotFound, "error.discussion.not_found", "discussion id is required")
	}
	var input backend.CommentInput
	var err error
	if projectID, ok := routepath.ProjectIDFromDiscussion(id); ok {
		input, err = threads.Input(projectID, "", parentID, content)
	} else {
		input, err = threads.Input("", id, parentID, content)
	}
	if err != nil {
		return err
	}
	if input.TimelineItemID != "" {
		item, err := s.gateway.GetTimelineItem(ctx, input.TimelineItemID)
		if err != nil {
			return err
		}
		input.ProjectID = item.ProjectID
	}
	_, err = s.gateway.CreateComment(ctx, input)
	return err
}
