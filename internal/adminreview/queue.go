// Package adminreview orders and mutates the list of vendor applications.
// The queue never patches its list optimistically: every approve or reject
// is followed by a full refetch, because a concurrent admin or the
// applicant may have changed state in between.
package adminreview

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yarncraft/storefront/internal/api"
)

// ErrNotAuthorized marks a 403 from the applications endpoint: the caller
// should be redirected away, not shown a generic failure alert.
var ErrNotAuthorized = errors.New("admin privileges required")

// Confirm asks the user to confirm an action. Returning false aborts
// without any network call.
type Confirm func(prompt string) bool

// Backend is the slice of the API the queue needs.
type Backend interface {
	Applications(ctx context.Context) ([]api.Application, error)
	ApproveApplication(ctx context.Context, id int64) error
	RejectApplication(ctx context.Context, id int64) error
	VendorStats(ctx context.Context) ([]api.VendorPerformance, error)
}

// Queue holds the admin's view of all vendor applications.
type Queue struct {
	mu      sync.Mutex
	backend Backend
	confirm Confirm
	log     zerolog.Logger
	apps    []api.Application
}

// New creates a queue. confirm may be nil, in which case actions proceed
// unconfirmed (tests).
func New(backend Backend, confirm Confirm, log zerolog.Logger) *Queue {
	return &Queue{backend: backend, confirm: confirm, log: log}
}

// Fetch retrieves all applications and applies the display ordering:
// PENDING entries first, then everything else by creation time descending.
// The sort is stable. A 403 maps to ErrNotAuthorized.
func (q *Queue) Fetch(ctx context.Context) ([]api.Application, error) {
	apps, err := q.backend.Applications(ctx)
	if err != nil {
		if api.IsForbidden(err) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}

	sortApplications(apps)

	q.mu.Lock()
	q.apps = apps
	q.mu.Unlock()
	return q.Applications(), nil
}

// Applications returns a copy of the last fetched, ordered list.
func (q *Queue) Applications() []api.Application {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]api.Application, len(q.apps))
	copy(out, q.apps)
	return out
}

// Approve approves one application after confirmation, then refetches.
func (q *Queue) Approve(ctx context.Context, id int64) error {
	return q.act(ctx, id, "Approve this vendor?", q.backend.ApproveApplication)
}

// Reject rejects one application after confirmation, then refetches.
func (q *Queue) Reject(ctx context.Context, id int64) error {
	return q.act(ctx, id, "Reject this vendor?", q.backend.RejectApplication)
}

func (q *Queue) act(ctx context.Context, id int64, prompt string, action func(context.Context, int64) error) error {
	if q.confirm != nil && !q.confirm(prompt) {
		return nil
	}
	if err := action(ctx, id); err != nil {
		return fmt.Errorf("%s", api.ServerMessage(err, "server error"))
	}
	// Trust the server's post-action state over any local guess.
	if _, err := q.Fetch(ctx); err != nil {
		q.log.Warn().Err(err).Int64("application_id", id).Msg("adminreview: refresh after action failed")
		return err
	}
	return nil
}

// VendorStats fetches the per-vendor analytics rows.
func (q *Queue) VendorStats(ctx context.Context) ([]api.VendorPerformance, error) {
	stats, err := q.backend.VendorStats(ctx)
	if err != nil {
		if api.IsForbidden(err) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	return stats, nil
}

func sortApplications(apps []api.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		iPending := apps[i].Status == "PENDING"
		jPending := apps[j].Status == "PENDING"
		if iPending != jPending {
			return iPending
		}
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}
