// Package panel holds the presentation-side state of the admin interface:
// the user list with its filter/sort/selection state and the create/edit
// form validation. It renders nothing; callers drive it and display the
// results.
package panel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"adminpanel/m/client"
	"adminpanel/m/domain"
)

// SortOrder is the direction of the created_at ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// List is the list view's state machine. It starts empty, becomes ready
// after Load, and derives the visible subset from the fetched set plus the
// active filter and sort order on every call. The derived list is never
// mutated independently of its source.
type List struct {
	api *client.Client

	mu       sync.Mutex
	users    []domain.User
	filter   string
	order    SortOrder
	selected map[int64]struct{}
	loaded   bool
}

// NewList returns a List bound to api. Newest-first ordering is the initial
// state, matching what an admin expects to see.
func NewList(api *client.Client) *List {
	return &List{
		api:      api,
		order:    SortDesc,
		selected: make(map[int64]struct{}),
	}
}

// Load fetches the full record set and transitions the list to ready.
func (l *List) Load(ctx context.Context) error {
	users, err := l.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users = users
	l.loaded = true
	return nil
}

// Ready reports whether the initial fetch has completed.
func (l *List) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// SetFilter sets the free-text filter. It does not alter the fetched set.
func (l *List) SetFilter(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = text
}

// ToggleSort flips the created_at sort direction.
func (l *List) ToggleSort() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.order == SortAsc {
		l.order = SortDesc
	} else {
		l.order = SortAsc
	}
}

// Order returns the active sort direction.
func (l *List) Order() SortOrder {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order
}

// Visible derives the displayed subset: case-insensitive substring match of
// the filter over username, then a stable sort by created_at in the active
// direction. Stability keeps equal timestamps in fetch order.
func (l *List) Visible() []domain.User {
	l.mu.Lock()
	defer l.mu.Unlock()

	needle := strings.ToLower(l.filter)
	visible := make([]domain.User, 0, len(l.users))
	for _, u := range l.users {
		if needle == "" || strings.Contains(strings.ToLower(u.Username), needle) {
			visible = append(visible, u)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if l.order == SortAsc {
			return visible[i].CreatedAt.Before(visible[j].CreatedAt)
		}
		return visible[j].CreatedAt.Before(visible[i].CreatedAt)
	})
	return visible
}

// Selection

// ToggleSelect adds id to the selection set, or removes it if present.
func (l *List) ToggleSelect(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.selected[id]; ok {
		delete(l.selected, id)
	} else {
		l.selected[id] = struct{}{}
	}
}

// SelectAllVisible selects every currently visible record; if all of them
// are already selected it clears the selection instead.
func (l *List) SelectAllVisible() {
	visible := l.Visible()
	l.mu.Lock()
	defer l.mu.Unlock()
	all := len(visible) > 0
	for _, u := range visible {
		if _, ok := l.selected[u.ID]; !ok {
			all = false
			break
		}
	}
	if all {
		l.selected = make(map[int64]struct{})
		return
	}
	for _, u := range visible {
		l.selected[u.ID] = struct{}{}
	}
}

// Selected returns the selected ids in unspecified order.
func (l *List) Selected() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]int64, 0, len(l.selected))
	for id := range l.selected {
		ids = append(ids, id)
	}
	return ids
}

// ClearSelection empties the selection set.
func (l *List) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = make(map[int64]struct{})
}

// Actions

// ToggleBlock flips is_blocked for one record: optimistic local flip, then a
// partial update; the local flag is reverted if the request fails.
func (l *List) ToggleBlock(ctx context.Context, id int64) error {
	l.mu.Lock()
	idx := l.indexOf(id)
	if idx < 0 {
		l.mu.Unlock()
		return fmt.Errorf("panel: user %d not loaded", id)
	}
	blocked := !l.users[idx].IsBlocked
	l.users[idx].IsBlocked = blocked
	l.mu.Unlock()

	_, err := l.api.UpdateUser(ctx, id, domain.UpdateUserParams{IsBlocked: &blocked})
	if err != nil {
		l.mu.Lock()
		if idx := l.indexOf(id); idx >= 0 {
			l.users[idx].IsBlocked = !blocked
		}
		l.mu.Unlock()
		return err
	}
	return nil
}

// BulkSetBlocked issues one independent partial update per selected id, all
// dispatched concurrently and awaited as a batch. Successful updates are
// applied locally; failures are collected into a *BulkError. The selection
// is cleared regardless of partial failure.
func (l *List) BulkSetBlocked(ctx context.Context, blocked bool) error {
	action := "block"
	if !blocked {
		action = "unblock"
	}
	return l.bulk(ctx, action, func(ctx context.Context, id int64) error {
		u, err := l.api.UpdateUser(ctx, id, domain.UpdateUserParams{IsBlocked: &blocked})
		if err != nil {
			return err
		}
		l.mu.Lock()
		if idx := l.indexOf(id); idx >= 0 {
			l.users[idx] = *u
		}
		l.mu.Unlock()
		return nil
	})
}

// BulkDelete deletes every selected record with the same independent
// concurrent dispatch and aggregate failure policy as BulkSetBlocked.
func (l *List) BulkDelete(ctx context.Context) error {
	return l.bulk(ctx, "delete", func(ctx context.Context, id int64) error {
		if _, err := l.api.DeleteUser(ctx, id); err != nil {
			return err
		}
		l.mu.Lock()
		if idx := l.indexOf(id); idx >= 0 {
			l.users = append(l.users[:idx], l.users[idx+1:]...)
		}
		l.mu.Unlock()
		return nil
	})
}

func (l *List) bulk(ctx context.Context, action string, op func(context.Context, int64) error) error {
	ids := l.Selected()
	defer l.ClearSelection()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures = make(map[int64]error)
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := op(ctx, id); err != nil {
				mu.Lock()
				failures[id] = err
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	if len(failures) > 0 {
		return &BulkError{Action: action, Attempted: len(ids), Failures: failures}
	}
	return nil
}

// indexOf must be called with l.mu held.
func (l *List) indexOf(id int64) int {
	for i := range l.users {
		if l.users[i].ID == id {
			return i
		}
	}
	return -1
}

// BulkError aggregates the failed requests of one bulk action. The
// successful requests of the same batch have already been applied.
type BulkError struct {
	Action    string
	Attempted int
	Failures  map[int64]error
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("bulk %s: %d of %d requests failed", e.Action, len(e.Failures), e.Attempted)
}
