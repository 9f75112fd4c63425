// internal/workers/application/update-application-status/review_board.go
package updateapplicationstatus

import (
	"context"
	"sync"

	"job-board/internal/common/errors"
	"job-board/internal/models"
)

// Updater issues the status mutation. *Handler satisfies it.
type Updater interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

// ReviewBoard is a reviewer's local list of applications. Local entries
// change only after the backend confirmed the update.
type ReviewBoard struct {
	mu           sync.RWMutex
	updater      Updater
	applications []models.Application
}

func NewReviewBoard(updater Updater, applications []models.Application) *ReviewBoard {
	apps := make([]models.Application, len(applications))
	copy(apps, applications)
	return &ReviewBoard{updater: updater, applications: apps}
}

// Applications returns a copy of the current list.
func (b *ReviewBoard) Applications() []models.Application {
	b.mu.RLock()
	defer b.mu.RUnlock()

	apps := make([]models.Application, len(b.applications))
	copy(apps, b.applications)
	return apps
}

// Get returns the local entry for id.
func (b *ReviewBoard) Get(id string) (models.Application, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i := b.indexOf(id); i >= 0 {
		return b.applications[i], true
	}
	return models.Application{}, false
}

// UpdateStatus sends the review and, once it succeeds, applies the same
// review to the local entry. On error the list is left as it was.
func (b *ReviewBoard) UpdateStatus(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationFailedError("input cannot be nil")
	}

	b.mu.RLock()
	known := b.indexOf(input.ApplicationID) >= 0
	b.mu.RUnlock()
	if !known {
		return nil, errors.NewNotFoundError("application", input.ApplicationID)
	}

	out, err := b.updater.Execute(ctx, input)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(out.ApplicationID); i >= 0 {
		b.applications[i] = b.applications[i].ApplyReview(out.Review())
	}
	return out, nil
}

func (b *ReviewBoard) indexOf(id string) int {
	for i := range b.applications {
		if b.applications[i].ID == id {
			return i
		}
	}
	return -1
}
