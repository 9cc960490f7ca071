package threads

import (
	"strings"
	"testing"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"github.com/google/go-cmp/cmp"
)

func reply(id string, parent string) backend.Comment {
	return backend.Comment{ID: id, ParentCommentID: &parent}
}

func top(id string) backend.Comment {
	return backend.Comment{ID: id}
}

func ids(comments []backend.Comment) []string {
	out := []string{}
	for _, c := range comments {
		out = append(out, c.ID)
	}
	return out
}

func TestGroupNestsRepliesUnderParent(t *testing.T) {
	t.Parallel()

	got := Group([]backend.Comment{top("A"), reply("B", "A"), top("C")})
	if len(got) != 2 {
		t.Fatalf("threads = %d, want 2", len(got))
	}
	if got[0].Comment.ID != "A" || !cmp.Equal(ids(got[0].Replies), []string{"B"}) {
		t.Fatalf("thread A = %s %v", got[0].Comment.ID, ids(got[0].Replies))
	}
	if got[1].Comment.ID != "C" || len(got[1].Replies) != 0 || got[1].Replies == nil {
		t.Fatalf("thread C = %s %v", got[1].Comment.ID, got[1].Replies)
	}
}

func TestGroupKeepsInputOrderForRepliesEvenWhenReplyPrecedesParent(t *testing.T) {
	t.Parallel()

	got := Group([]backend.Comment{reply("R1", "A"), top("A"), reply("R2", "A")})
	if len(got) != 1 || !cmp.Equal(ids(got[0].Replies), []string{"R1", "R2"}) {
		t.Fatalf("threads = %+v", got)
	}
}

func TestPartitionDropsOrphansAndNestedReplies(t *testing.T) {
	t.Parallel()

	input := []backend.Comment{
		top("A"),
		reply("B", "A"),
		reply("D", "B"),
		reply("E", "missing"),
		top("C"),
	}
	got := Partition(input)
	if diff := cmp.Diff([]string{"D", "E"}, ids(got.Orphans)); diff != "" {
		t.Fatalf("orphans mismatch (-want +got):\n%s", diff)
	}

	seen := map[string]int{}
	for _, thread := range got.Threads {
		seen[thread.Comment.ID]++
		for _, r := range thread.Replies {
			if r.ParentID() != thread.Comment.ID {
				t.Fatalf("reply %s under %s has parent %s", r.ID, thread.Comment.ID, r.ParentID())
			}
			seen[r.ID]++
		}
	}
	for _, o := range got.Orphans {
		seen[o.ID]++
	}
	for _, c := range input {
		if seen[c.ID] != 1 {
			t.Fatalf("comment %s placed %d times", c.ID, seen[c.ID])
		}
	}
	if Count(got.Threads) != 3 {
		t.Fatalf("Count() = %d, want 3", Count(got.Threads))
	}
}

func TestGroupEmptyInput(t *testing.T) {
	t.Parallel()

	if got := Group(nil); len(got) != 0 {
		t.Fatalf("Group(nil) = %v", got)
	}
	if got := Partition(nil).Orphans; got != nil {
		t.Fatalf("orphans = %v", got)
	}
}

func TestInputValidatesContent(t *testing.T) {
	t.Parallel()

	if _, err := Input("p1", "", "", "   "); apperrors.LocalizationKey(err) != "web.comments.required" {
		t.Fatalf("blank comment err = %v", err)
	}
	if _, err := Input("p1", "", "", strings.Repeat("é", MaxContentLength+1)); apperrors.LocalizationKey(err) != "web.comments.too_long" {
		t.Fatalf("long comment err = %v", err)
	}
	got, err := Input(" p1 ", "t1", " c1 ", strings.Repeat("é", MaxContentLength))
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if got.ParentCommentID != "c1" || got.ProjectID != "p1" || got.TimelineItemID != "t1" {
		t.Fatalf("input = %+v", got)
	}
}
