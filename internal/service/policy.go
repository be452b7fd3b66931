package service

import (
	"context"

	"mural/internal/models"
)

// ownerOnly permits only the resource owner. Moderator status does not
// override this check; use ownerOrModerator where escalation applies.
func ownerOnly(requesterID, ownerID uint, denyMsg string) error {
	if requesterID != ownerID {
		return models.NewUnauthorizedError(denyMsg)
	}
	return nil
}

// ownerOrModerator permits the resource owner, or any moderator when the
// isModerator lookup is available. The lookup is only consulted for
// non-owners, so the common path costs nothing extra.
func ownerOrModerator(
	ctx context.Context,
	isModerator func(ctx context.Context, userID uint) (bool, error),
	requesterID, ownerID uint,
	denyMsg string,
) error {
	if requesterID == ownerID {
		return nil
	}
	if isModerator == nil {
		return models.NewUnauthorizedError(denyMsg)
	}
	mod, err := isModerator(ctx, requesterID)
	if err != nil {
		return err
	}
	if !mod {
		return models.NewUnauthorizedError(denyMsg)
	}
	return nil
}
