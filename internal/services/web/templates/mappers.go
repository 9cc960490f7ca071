package templates

import (
	"github.com/civicspace/agora/internal/services/web/backend"
	"github.com/civicspace/agora/internal/services/web/platform/funding"
	"github.com/civicspace/agora/internal/services/web/platform/threads"
	"github.com/civicspace/agora/internal/services/web/routepath"
)

const summaryLength = 150

// NewProjectCard maps a backend project to its card view.
func NewProjectCard(p backend.Project) ProjectCard {
	return ProjectCard{
		ID:          p.ID,
		URL:         routepath.Project(p.ID),
		Title:       p.Title,
		Summary:     Truncate(p.Description, summaryLength),
		Description: p.Description,
		Category:    p.Category,
		Status:      p.Status,
		OwnerName:   p.OwnerName,
		Votes:       p.VoteCount,
		Comments:    p.CommentCount,
		Tags:        p.Tags,
		Funding:     funding.View(p),
		CreatedAt:   p.CreatedAt,
		DiscussURL:  routepath.ProjectDiscussion(p.ID),
	}
}

// NewProjectCards maps a list of projects.
func NewProjectCards(projects []backend.Project) []ProjectCard {
	cards := make([]ProjectCard, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, NewProjectCard(p))
	}
	return cards
}

// NewCommentItem maps a backend comment.
func NewCommentItem(c backend.Comment) CommentItem {
	item := CommentItem{
		ID:        c.ID,
		Author:    c.AuthorName,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if c.ProjectID != "" {
		item.ProjectURL = routepath.Project(c.ProjectID)
	}
	return item
}

// NewCommentItems maps a list of comments.
func NewCommentItems(comments []backend.Comment) []CommentItem {
	items := make([]CommentItem, 0, len(comments))
	for _, c := range comments {
		items = append(items, NewCommentItem(c))
	}
	return items
}

// NewThreadViews maps grouped comments.
func NewThreadViews(grouped []threads.Thread) []ThreadView {
	views := make([]ThreadView, 0, len(grouped))
	for _, thread := range grouped {
		views = append(views, ThreadView{
			Comment: NewCommentItem(thread.Comment),
			Replies: NewCommentItems(thread.Replies),
		})
	}
	return views
}

// NewDonationItem maps a backend donation. Anonymous donors keep no name.
func NewDonationItem(d backend.Donation) DonationItem {
	item := DonationItem{
		Anonymous: d.IsAnonymous,
		Amount:    funding.FormatAmount(d.Amount),
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
	}
	if !d.IsAnonymous {
		item.Donor = d.DonorName
	}
	if d.ProjectID != "" {
		item.ProjectURL = routepath.Project(d.ProjectID)
	}
	return item
}

// NewDonationItems maps a list of donations.
func NewDonationItems(donations []backend.Donation) []DonationItem {
	items := make([]DonationItem, 0, len(donations))
	for _, d := range donations {
		items = append(items, NewDonationItem(d))
	}
	return items
}

// NewActivityItem maps a timeline item to a feed entry.
func NewActivityItem(item backend.TimelineItem) ActivityItem {
	return ActivityItem{
		Icon:         MilestoneIcon(item.MilestoneType),
		Title:        item.Title,
		URL:          routepath.ForumThread(item.ID),
		ProjectTitle: item.ProjectTitle,
		ProjectURL:   routepath.Project(item.ProjectID),
		Comments:     item.CommentCount,
		CreatedAt:    item.CreatedAt,
	}
}
