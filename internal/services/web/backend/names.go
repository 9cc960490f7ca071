package backend

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/resourcename"
)

const (
	projectPattern      = "projects/{project}"
	timelineItemPattern = "projects/{project}/timeline/{item}"
	userPattern         = "users/{user}"
	badgePattern        = "users/{user}/badges/{badge}"

	// anyParent is the wildcard parent segment for lookups by leaf id.
	anyParent = "-"
)

// ProjectName builds the resource name of a project.
func ProjectName(projectID string) string {
	return resourcename.Sprint(projectPattern, strings.TrimSpace(projectID))
}

// TimelineItemName builds the resource name of a timeline item. A blank
// project id uses the wildcard parent.
func TimelineItemName(projectID string, itemID string) string {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		projectID = anyParent
	}
	return resourcename.Sprint(timelineItemPattern, projectID, strings.TrimSpace(itemID))
}

// UserName builds the resource name of a user.
func UserName(userID string) string {
	return resourcename.Sprint(userPattern, strings.TrimSpace(userID))
}

// UserBadgeName builds the resource name of a user's badge.
func UserBadgeName(userID string, badgeID string) string {
	return resourcename.Sprint(badgePattern, strings.TrimSpace(userID), strings.TrimSpace(badgeID))
}

// ParseProjectName extracts the project id from a project resource name.
func ParseProjectName(name string) (string, error) {
	var projectID string
	if err := resourcename.Sscan(name, projectPattern, &projectID); err != nil {
		return "", fmt.Errorf("parse project name %q: %w", name, err)
	}
	return projectID, nil
}

// ParseTimelineItemName extracts the project and item ids.
func ParseTimelineItemName(name string) (string, string, error) {
	var projectID, itemID string
	if err := resourcename.Sscan(name, timelineItemPattern, &projectID, &itemID); err != nil {
		return "", "", fmt.Errorf("parse timeline item name %q: %w", name, err)
	}
	return projectID, itemID, nil
}
