package board

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/nhle/applicant-board/internal/api"
	"github.com/nhle/applicant-board/internal/model"
)

// Remote is the subset of the applicant store API the controller depends
// on. *api.Client satisfies it; tests substitute a fake.
type Remote interface {
	ListApplicants(ctx context.Context, params url.Values) (*api.ListResult, error)
	UpdateStage(ctx context.Context, id string, stage model.StageID) error
	BulkUpdateStage(ctx context.Context, ids []string, stage model.StageID) error
	AddNote(ctx context.Context, id, content string) error
	UpdateRating(ctx context.Context, id string, rating int) error
	ToggleBookmark(ctx context.Context, id string) (bool, error)
	Reject(ctx context.Context, id, reason string) error
}

// Controller owns the in-memory applicant collection, the selection set,
// and load sequencing. All methods are safe for concurrent use; mutations
// apply optimistically and roll back when the remote call fails, and every
// confirmed write is followed by a reload so the visible board converges on
// server state.
type Controller struct {
	mu      sync.Mutex
	remote  Remote
	catalog []model.Stage

	applicants []model.Applicant
	total      int
	filter     FilterSpec
	selection  *Selection

	// loadSeq tags each reload; appliedSeq is the highest sequence whose
	// response has been applied. Responses below appliedSeq are stale and
	// discarded, so a slow fetch can never overwrite fresher state.
	loadSeq    uint64
	appliedSeq uint64
	cancelLoad context.CancelFunc

	logf func(format string, args ...interface{})
}

// NewController creates a controller over the given remote store using the
// fixed stage catalog.
func NewController(remote Remote) *Controller {
	return &Controller{
		remote:    remote,
		catalog:   model.StageCatalog(),
		selection: NewSelection(),
		logf:      log.Printf,
	}
}

// SetRemote swaps the remote store, e.g. after the user reconfigures the
// connection. The in-memory collection and selection are kept; the caller
// follows up with a Reload.
func (c *Controller) SetRemote(remote Remote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remote = remote
}

// remoteStore returns the current remote under the lock.
func (c *Controller) remoteStore() Remote {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote
}

// SetLogf replaces the failure logger. Used by tests to silence output.
func (c *Controller) SetLogf(logf func(format string, args ...interface{})) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logf = logf
}

// Applicants returns a copy of the current collection.
func (c *Controller) Applicants() []model.Applicant {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Applicant, len(c.applicants))
	copy(out, c.applicants)
	return out
}

// Total returns the server-reported total for the current filter.
func (c *Controller) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Get returns the applicant with the given id, if present.
func (c *Controller) Get(id string) (model.Applicant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.applicants[i], true
	}
	return model.Applicant{}, false
}

// Columns partitions the current collection into the stage catalog.
func (c *Controller) Columns() []Column {
	return Partition(c.Applicants(), c.catalog)
}

// Filter returns the current filter specification.
func (c *Controller) Filter() FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter replaces the filter specification. The caller follows up with
// exactly one Reload; the sequence guard retires any fetch still in flight
// for the previous spec.
func (c *Controller) SetFilter(f FilterSpec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

// Reload fetches the collection for the current filter. Each reload carries
// a monotonic sequence number and cancels the previous in-flight fetch; a
// response is applied only if no later response has been applied already
// (last request wins, stale responses are discarded).
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancelLoad = cancel
	params := c.filter.Params()
	remote := c.remote
	c.mu.Unlock()

	result, err := remote.ListApplicants(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("loading applicants: %w", err)
	}
	if seq <= c.appliedSeq {
		// A later reload already landed; drop this result.
		return nil
	}
	c.appliedSeq = seq
	c.applicants = result.Applicants
	c.total = result.Total
	return nil
}

// MoveToStage moves one applicant to the target stage. The move applies
// optimistically, rolls back if the remote call fails, and reloads on
// success. Moving an applicant onto its current stage is a local no-op:
// no request is issued.
func (c *Controller) MoveToStage(ctx context.Context, id string, target model.StageID) error {
	if !model.ValidTargetStage(target) {
		return fmt.Errorf("invalid target stage %q", target)
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("applicant %q is not in the current collection", id)
	}
	if c.applicants[i].Stage == target {
		c.mu.Unlock()
		return nil
	}
	prev := c.applicants[i].Stage
	c.applicants[i].Stage = target
	remote := c.remote
	c.mu.Unlock()

	if err := remote.UpdateStage(ctx, id, target); err != nil {
		c.rollbackStage(id, prev)
		c.log("moving applicant %s to %s: %v", id, target, err)
		return fmt.Errorf("moving applicant %s to %s: %w", id, target, err)
	}

	return c.Reload(ctx)
}

// BulkMove moves every applicant in ids to the target stage with a single
// request. An empty id list is a pure no-op. On success the selection set
// is cleared and the collection reloaded; on failure the selection set is
// left untouched.
func (c *Controller) BulkMove(ctx context.Context, ids []string, target model.StageID) error {
	if len(ids) == 0 {
		return nil
	}
	if !model.ValidTargetStage(target) {
		return fmt.Errorf("invalid target stage %q", target)
	}

	unique := dedupe(ids)
	if err := c.remoteStore().BulkUpdateStage(ctx, unique, target); err != nil {
		c.log("bulk moving %d applicants to %s: %v", len(unique), target, err)
		return fmt.Errorf("bulk moving to %s: %w", target, err)
	}

	c.mu.Lock()
	c.selection.Clear()
	c.mu.Unlock()

	return c.Reload(ctx)
}

// BulkMoveSelected moves the current selection set to the target stage.
func (c *Controller) BulkMoveSelected(ctx context.Context, target model.StageID) error {
	return c.BulkMove(ctx, c.SelectedIDs(), target)
}

// AddNote appends a note to an applicant. Content must be non-empty after
// trimming. The collection reloads on success so the server-assigned note
// id, author, and timestamp appear.
func (c *Controller) AddNote(ctx context.Context, id, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("note content is empty")
	}

	c.mu.Lock()
	present := c.indexOf(id) >= 0
	c.mu.Unlock()
	if !present {
		return fmt.Errorf("applicant %q is not in the current collection", id)
	}

	if err := c.remoteStore().AddNote(ctx, id, content); err != nil {
		c.log("adding note to applicant %s: %v", id, err)
		return fmt.Errorf("adding note to applicant %s: %w", id, err)
	}

	return c.Reload(ctx)
}

// UpdateRating sets the star rating for an applicant. Rating must be an
// integer in [1,5]. The new value applies locally before the remote call
// completes and is kept without a reload; a failed call rolls it back.
func (c *Controller) UpdateRating(ctx context.Context, id string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating %d out of range [1,5]", rating)
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("applicant %q is not in the current collection", id)
	}
	prev := c.applicants[i].Rating
	c.applicants[i].Rating = rating
	remote := c.remote
	c.mu.Unlock()

	if err := remote.UpdateRating(ctx, id, rating); err != nil {
		c.mu.Lock()
		if i := c.indexOf(id); i >= 0 {
			c.applicants[i].Rating = prev
		}
		c.mu.Unlock()
		c.log("updating rating for applicant %s: %v", id, err)
		return fmt.Errorf("updating rating for applicant %s: %w", id, err)
	}

	return nil
}

// ToggleBookmark flips the bookmark flag for an applicant, optimistically,
// reconciling with the state the server reports.
func (c *Controller) ToggleBookmark(ctx context.Context, id string) error {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("applicant %q is not in the current collection", id)
	}
	prev := c.applicants[i].IsBookmarked
	c.applicants[i].IsBookmarked = !prev
	remote := c.remote
	c.mu.Unlock()

	state, err := remote.ToggleBookmark(ctx, id)
	c.mu.Lock()
	i = c.indexOf(id)
	if err != nil {
		if i >= 0 {
			c.applicants[i].IsBookmarked = prev
		}
		c.mu.Unlock()
		c.log("toggling bookmark for applicant %s: %v", id, err)
		return fmt.Errorf("toggling bookmark for applicant %s: %w", id, err)
	}
	if i >= 0 {
		c.applicants[i].IsBookmarked = state
	}
	c.mu.Unlock()
	return nil
}

// Reject moves an applicant to the terminal rejected stage. Reason must be
// non-empty. On success the applicant leaves every board column after the
// reload; on failure the prior stage is restored.
func (c *Controller) Reject(ctx context.Context, id, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("reject reason is empty")
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("applicant %q is not in the current collection", id)
	}
	prev := c.applicants[i].Stage
	c.applicants[i].Stage = model.StageRejected
	remote := c.remote
	c.mu.Unlock()

	if err := remote.Reject(ctx, id, reason); err != nil {
		c.rollbackStage(id, prev)
		c.log("rejecting applicant %s: %v", id, err)
		return fmt.Errorf("rejecting applicant %s: %w", id, err)
	}

	return c.Reload(ctx)
}

// ToggleSelect adds or removes an applicant id from the selection set.
func (c *Controller) ToggleSelect(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Toggle(id)
}

// ClearSelection empties the selection set.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Clear()
}

// IsSelected reports whether an applicant id is selected.
func (c *Controller) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Has(id)
}

// SelectedIDs returns the selected ids in toggle order.
func (c *Controller) SelectedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.IDs()
}

// SelectionLen returns the number of selected applicants.
func (c *Controller) SelectionLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Len()
}

// indexOf returns the position of id in the collection, or -1.
// Caller must hold c.mu.
func (c *Controller) indexOf(id string) int {
	for i := range c.applicants {
		if c.applicants[i].ID == id {
			return i
		}
	}
	return -1
}

// rollbackStage restores a stage after a failed optimistic move. The
// applicant may have left the collection while the request was in flight.
func (c *Controller) rollbackStage(id string, stage model.StageID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.applicants[i].Stage = stage
	}
}

func (c *Controller) log(format string, args ...interface{}) {
	c.mu.Lock()
	logf := c.logf
	c.mu.Unlock()
	if logf != nil {
		logf(format, args...)
	}
}

// dedupe returns ids with duplicates removed, preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
