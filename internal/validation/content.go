package validation

import (
	"fmt"
	"strings"
)

const (
	// MaxCommentLength bounds user comments on an item.
	MaxCommentLength = 2000
	// MaxTitleLength bounds item titles.
	MaxTitleLength = 200
	// MaxDescriptionLength bounds item descriptions.
	MaxDescriptionLength = 1000
	// MaxRejectionReasonLength bounds moderator rejection notes.
	MaxRejectionReasonLength = 500
)

// ValidateComment checks comment content bounds. Content must be non-blank
// after trimming whitespace.
func ValidateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	if len(content) > MaxCommentLength {
		return fmt.Errorf("comment must not exceed %d characters", MaxCommentLength)
	}
	return nil
}

// ValidateItemTitle checks item title bounds.
func ValidateItemTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateItemDescription checks item description bounds. Empty is allowed.
func ValidateItemDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", MaxDescriptionLength)
	}
	return nil
}

// ValidateRejectionReason checks a moderator's rejection note. The reason is
// optional, so only the upper bound is enforced.
func ValidateRejectionReason(reason string) error {
	if len(reason) > MaxRejectionReasonLength {
		return fmt.Errorf("rejection reason must not exceed %d characters", MaxRejectionReasonLength)
	}
	return nil
}
