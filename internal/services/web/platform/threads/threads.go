// Package threads groups flat comment lists into one level of replies.
package threads

import (
	"strings"
	"unicode/utf8"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
)

// MaxContentLength bounds a comment body in characters.
const MaxContentLength = 2000

// Input validates a submitted comment locally and builds its backend input.
func Input(projectID string, timelineItemID string, parentID string, content string) (backend.CommentInput, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return backend.CommentInput{}, apperrors.EK(apperrors.KindInvalidInput, "web.comments.required", "comment content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return backend.CommentInput{}, apperrors.EK(apperrors.KindInvalidInput, "web.comments.too_long", "comment content is too long")
	}
	return backend.CommentInput{
		ProjectID:       strings.TrimSpace(projectID),
		TimelineItemID:  strings.TrimSpace(timelineItemID),
		ParentCommentID: strings.TrimSpace(parentID),
		Content:         content,
	}, nil
}

// Thread is a top-level comment with its direct replies in input order.
type Thread struct {
	Comment backend.Comment
	Replies []backend.Comment
}

// Grouping is the full partition of a comment list.
type Grouping struct {
	Threads []Thread
	// Orphans are replies whose parent is not a top-level comment of the input.
	Orphans []backend.Comment
}

// Group returns the threads of comments, dropping orphaned replies.
func Group(comments []backend.Comment) []Thread {
	return Partition(comments).Threads
}

// Partition splits comments into threads and orphans in one pass over the
// input plus one pass over the top-level comments. Every comment lands in
// exactly one place. Top-level order and reply order follow the input.
func Partition(comments []backend.Comment) Grouping {
	replies := make(map[string][]backend.Comment)
	topLevel := make(map[string]struct{})
	threads := make([]Thread, 0, len(comments))
	for _, comment := range comments {
		parentID := comment.ParentID()
		if parentID == "" {
			topLevel[comment.ID] = struct{}{}
			threads = append(threads, Thread{Comment: comment})
			continue
		}
		replies[parentID] = append(replies[parentID], comment)
	}

	var grouping Grouping
	for i := range threads {
		id := threads[i].Comment.ID
		threads[i].Replies = replies[id]
		if threads[i].Replies == nil {
			threads[i].Replies = []backend.Comment{}
		}
		delete(replies, id)
	}
	grouping.Threads = threads

	if len(replies) > 0 {
		// Preserve input order for the orphans.
		for _, comment := range comments {
			parentID := comment.ParentID()
			if parentID == "" {
				continue
			}
			if _, ok := topLevel[parentID]; !ok {
				grouping.Orphans = append(grouping.Orphans, comment)
			}
		}
	}
	return grouping
}

// Count returns the total number of comments shown across threads.
func Count(threads []Thread) int {
	total := 0
	for _, thread := range threads {
		total += 1 + len(thread.Replies)
	}
	return total
}
