package search

import (
	"context"
	"strings"

	"github.com/civicspace/agora/internal/services/web/backend"
	"golang.org/x/sync/errgroup"
)

const queryMaxLength = 100

// Gateway searches projects and discussion comments.
type Gateway interface {
	SearchProjects(ctx context.Context, query string) ([]backend.Project, error)
	SearchComments(ctx context.Context, query string) ([]backend.Comment, error)
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

// normalizeQuery trims the query and caps it at queryMaxLength runes.
func normalizeQuery(raw string) string {
	query := []rune(strings.TrimSpace(raw))
	if len(query) > queryMaxLength {
		query = query[:queryMaxLength]
	}
	return strings.TrimSpace(string(query))
}

type results struct {
	Projects []backend.Project
	Comments []backend.Comment
}

// search runs both searches concurrently. An empty query searches nothing.
func (s service) search(ctx context.Context, query string) (results, error) {
	var r results
	if query == "" {
		return r, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		r.Projects, err = s.gateway.SearchProjects(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		r.Comments, err = s.gateway.SearchComments(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return results{}, err
	}
	return r, nil
}
