package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"idcard/internal/domain/profile"

	"github.com/google/uuid"
)

// ProfileStore defines the interface for profile persistence.
type ProfileStore interface {
	Save(ctx context.Context, p profile.Record) error
	GetByID(ctx context.Context, id string) (profile.Record, error)
	Delete(ctx context.Context, id string) error
}

// SaveProfileInput carries input for the orchestrator.
type SaveProfileInput struct {
	Profile profile.Record
}

// SaveProfileDeps holds dependencies for SaveProfile.
type SaveProfileDeps struct {
	ProfileStore ProfileStore
}

var ErrProfileNotFound = errors.New("profile not found")

// ExecuteSaveProfile creates or updates a member profile.
// PRE: Profile passes domain validation
// POST: Profile is persisted; ID generated on create, CreatedAt preserved on update
func ExecuteSaveProfile(ctx context.Context, input SaveProfileInput, deps SaveProfileDeps) (string, error) {
	p := input.Profile

	if err := p.Validate(); err != nil {
		return "", err
	}

	now := time.Now()
	if p.ID == "" {
		p.ID = uuid.New().String()
		p.CreatedAt = now
		// The form leaves the issue date blank for a fresh member; the card
		// is issued the day the record is created.
		if p.IssueDate.IsZero() {
			p.IssueDate = now
		}
	} else {
		existing, err := deps.ProfileStore.GetByID(ctx, p.ID)
		if err != nil {
			return "", ErrProfileNotFound
		}
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = now
	}

	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return "", err
	}

	slog.Info("profile_saved", "profile_id", p.ID, "parish", p.Parish, "deanery", p.Deanery)
	return p.ID, nil
}

// ExecuteDeleteProfile removes a member profile.
// PRE: id is non-empty
// POST: Profile with the given id no longer exists
func ExecuteDeleteProfile(ctx context.Context, id string, deps SaveProfileDeps) error {
	if id == "" {
		return errors.New("profile id cannot be empty")
	}
	if _, err := deps.ProfileStore.GetByID(ctx, id); err != nil {
		return ErrProfileNotFound
	}
	if err := deps.ProfileStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("profile_deleted", "profile_id", id)
	return nil
}
