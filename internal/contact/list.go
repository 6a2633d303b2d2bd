package contact

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AdnanSadiqsb/botnflow-console/internal/api"
	"github.com/AdnanSadiqsb/botnflow-console/internal/logger"
)

// PageSize is the number of contacts shown per page.
const PageSize = 5

// DefaultDebounce is the search quiet period.
const DefaultDebounce = 400 * time.Millisecond

// ExportHeaders is the header row of a contact export.
var ExportHeaders = []string{"Name", "Client Email", "Phone", "Channel", "Tags"}

// ListController owns the server-synced contact list: the read cache, the
// debounced search, the channel filter, pagination and the tag-editing
// session. The cache is only ever mutated after a confirmed backend
// response.
//
// The mutex exists because the debounce timer fires on its own goroutine;
// everything else happens on the UI event loop.
type ListController struct {
	mu       sync.Mutex
	svc      Service
	notifier Notifier

	contacts []api.Contact
	page     int
	loading  bool

	searchTerm    string // immediate, tracks every keystroke
	committedTerm string // debounced, the term the cache reflects
	channelFilter string

	session  *TagSession
	debounce *Debouncer

	// Stale responses lose: a fetch result is dropped when a later fetch
	// already applied.
	reqSeq     uint64
	appliedSeq uint64

	// onChange pokes the UI after state changes on a non-UI goroutine.
	onChange func()
}

// ListOption configures a ListController.
type ListOption func(*ListController)

// WithDebounce overrides the search quiet period.
func WithDebounce(d time.Duration) ListOption {
	return func(lc *ListController) {
		lc.debounce = NewDebouncer(d)
	}
}

// WithOnChange registers a callback invoked after asynchronous state
// changes (debounced refreshes).
func WithOnChange(fn func()) ListOption {
	return func(lc *ListController) {
		lc.onChange = fn
	}
}

// NewListController creates a list controller.
func NewListController(svc Service, notifier Notifier, opts ...ListOption) *ListController {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	lc := &ListController{
		svc:      svc,
		notifier: notifier,
		page:     1,
		debounce: NewDebouncer(DefaultDebounce),
	}
	for _, opt := range opts {
		opt(lc)
	}
	return lc
}

// SetOnChange replaces the async-change callback.
func (lc *ListController) SetOnChange(fn func()) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.onChange = fn
}

// Refresh re-fetches the list with the current committed search term and
// channel filter, replacing the cache wholesale. withSpinner controls the
// loading flag the UI renders.
func (lc *ListController) Refresh(ctx context.Context, withSpinner bool) {
	lc.mu.Lock()
	search, channelFilter := lc.committedTerm, lc.channelFilter
	lc.mu.Unlock()
	lc.fetch(ctx, search, channelFilter, withSpinner)
}

func (lc *ListController) fetch(ctx context.Context, search, channelFilter string, withSpinner bool) {
	lc.mu.Lock()
	lc.reqSeq++
	seq := lc.reqSeq
	if withSpinner {
		lc.loading = true
	}
	lc.mu.Unlock()

	contacts, err := lc.svc.ListContacts(ctx, search, channelFilter)

	lc.mu.Lock()
	defer lc.mu.Unlock()
	if withSpinner {
		lc.loading = false
	}
	if err != nil {
		logger.Error("list contacts", slog.Any("error", err))
		lc.notifier.Error(failureMessage(err))
		return
	}
	if seq <= lc.appliedSeq {
		// A later fetch already landed; this response is stale.
		logger.Debug("dropping stale contact list response", slog.Uint64("seq", seq))
		return
	}
	lc.appliedSeq = seq
	lc.contacts = contacts
	lc.clampPage()
}

// SearchTerm returns the immediate (not yet debounced) search term.
func (lc *ListController) SearchTerm() string {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.searchTerm
}

// SetSearchTerm records a search keystroke. The fetch fires only after the
// input has been quiet for the debounce period; rapid edits replace the
// pending fetch. A committed search resets to page 1.
func (lc *ListController) SetSearchTerm(ctx context.Context, term string) {
	lc.mu.Lock()
	lc.searchTerm = term
	lc.mu.Unlock()

	lc.debounce.Schedule(func() {
		lc.commitSearch(ctx, term)
	})
}

func (lc *ListController) commitSearch(ctx context.Context, term string) {
	lc.mu.Lock()
	if term == lc.committedTerm {
		lc.mu.Unlock()
		return
	}
	lc.committedTerm = term
	lc.page = 1
	channelFilter := lc.channelFilter
	onChange := lc.onChange
	lc.mu.Unlock()

	lc.fetch(ctx, term, channelFilter, true)
	if onChange != nil {
		onChange()
	}
}

// ChannelFilter returns the active channel filter ("" means all).
func (lc *ListController) ChannelFilter() string {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.channelFilter
}

// SetChannelFilter changes the channel filter and re-fetches, resetting to
// page 1. Setting the current value is a no-op.
func (lc *ListController) SetChannelFilter(ctx context.Context, channelType string) {
	lc.mu.Lock()
	if channelType == lc.channelFilter {
		lc.mu.Unlock()
		return
	}
	lc.channelFilter = channelType
	lc.page = 1
	search := lc.committedTerm
	lc.mu.Unlock()

	lc.fetch(ctx, search, channelType, true)
}

// Loading reports whether a foreground fetch is in flight.
func (lc *ListController) Loading() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.loading
}

// Contacts returns a snapshot of the full cache.
func (lc *ListController) Contacts() []api.Contact {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return append([]api.Contact(nil), lc.contacts...)
}

// Page returns the current 1-based page.
func (lc *ListController) Page() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.page
}

// TotalPages returns the page count for the current cache (at least 1).
func (lc *ListController) TotalPages() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return totalPages(len(lc.contacts))
}

func totalPages(n int) int {
	pages := (n + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// SetPage moves to the given page, clamped to the valid range. Paging is a
// pure slice of the cache; no fetch happens.
func (lc *ListController) SetPage(page int) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.page = page
	lc.clampPage()
}

func (lc *ListController) clampPage() {
	max := totalPages(len(lc.contacts))
	if lc.page > max {
		lc.page = max
	}
	if lc.page < 1 {
		lc.page = 1
	}
}

// PageContacts returns the slice of the cache for the current page.
func (lc *ListController) PageContacts() []api.Contact {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	start := (lc.page - 1) * PageSize
	if start >= len(lc.contacts) {
		return nil
	}
	end := start + PageSize
	if end > len(lc.contacts) {
		end = len(lc.contacts)
	}
	return append([]api.Contact(nil), lc.contacts[start:end]...)
}

// Delete removes a contact. On success the cache is reconciled with a full
// re-fetch; on failure the cache is untouched and the error surfaces.
// It returns whether the delete succeeded so the UI can close its
// confirmation dialog.
func (lc *ListController) Delete(ctx context.Context, contactID string) bool {
	if err := lc.svc.DeleteContact(ctx, contactID); err != nil {
		logger.Error("delete contact", slog.String("id", contactID), slog.Any("error", err))
		lc.notifier.Error("Failed to delete contact")
		return false
	}

	lc.notifier.Success("Contact Deleted Successfully")
	lc.Refresh(ctx, false)
	return true
}

// OpenTagSession opens the tag-editing surface for a contact, replacing any
// prior session. Only one session exists at a time.
func (lc *ListController) OpenTagSession(contactID string) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	for _, c := range lc.contacts {
		if c.ID == contactID {
			lc.session = newTagSession(c)
			return true
		}
	}
	return false
}

// CloseTagSession discards the session. Nothing is rolled back: mutations
// only ever applied after server confirmation.
func (lc *ListController) CloseTagSession() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.session = nil
}

// Session returns a copy of the open session, or nil.
func (lc *ListController) Session() *TagSession {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if lc.session == nil {
		return nil
	}
	s := *lc.session
	s.Tags = append([]string(nil), lc.session.Tags...)
	return &s
}

// SetSessionInput updates the session's pending tag text.
func (lc *ListController) SetSessionInput(value string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.session != nil {
		lc.session.PendingInput = value
	}
}

// AddSessionTag sends the pending tag to the backend. Only after the PATCH
// succeeds are the session and the matching cache entry updated; a
// background re-fetch then reconciles with server state.
func (lc *ListController) AddSessionTag(ctx context.Context) {
	lc.mu.Lock()
	if lc.session == nil {
		lc.mu.Unlock()
		return
	}
	tag := strings.TrimSpace(lc.session.PendingInput)
	if tag == "" {
		lc.mu.Unlock()
		return
	}
	contactID := lc.session.ContactID
	updated := append(append([]string{}, lc.session.Tags...), tag)
	lc.mu.Unlock()

	if err := lc.svc.UpdateContactTags(ctx, contactID, updated); err != nil {
		logger.Error("add tag", slog.String("id", contactID), slog.Any("error", err))
		lc.notifier.Error("Failed to add tag")
		return
	}

	lc.applyConfirmedTags(contactID, updated, true)
	lc.notifier.Success("Tag added successfully")

	// Reconcile with the server in the background. Tag removal
	// deliberately skips this.
	lc.Refresh(ctx, false)
}

// RemoveSessionTag removes the first exact occurrence of tag via the
// backend, then mirrors the confirmed result into session and cache. No
// background refresh follows.
func (lc *ListController) RemoveSessionTag(ctx context.Context, tag string) {
	lc.mu.Lock()
	if lc.session == nil {
		lc.mu.Unlock()
		return
	}
	contactID := lc.session.ContactID
	updated := removeFirst(lc.session.Tags, tag)
	lc.mu.Unlock()

	if err := lc.svc.UpdateContactTags(ctx, contactID, updated); err != nil {
		logger.Error("remove tag", slog.String("id", contactID), slog.Any("error", err))
		lc.notifier.Error("Failed to remove tag")
		return
	}

	lc.applyConfirmedTags(contactID, updated, false)
	lc.notifier.Success("Tag removed successfully")
}

// applyConfirmedTags patches the cache entry and live session after the
// backend accepted a tag mutation.
func (lc *ListController) applyConfirmedTags(contactID string, tags []string, clearInput bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	for i := range lc.contacts {
		if lc.contacts[i].ID == contactID {
			lc.contacts[i].Tags = append([]string(nil), tags...)
			break
		}
	}
	if lc.session != nil && lc.session.ContactID == contactID {
		lc.session.Tags = append([]string(nil), tags...)
		if clearInput {
			lc.session.PendingInput = ""
		}
	}
}

func removeFirst(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	removed := false
	for _, t := range tags {
		if !removed && t == tag {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out
}

// ExportRows projects the full cache (not just the current page) into CSV
// rows.
func (lc *ListController) ExportRows() [][]string {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	rows := make([][]string, 0, len(lc.contacts))
	for _, c := range lc.contacts {
		rows = append(rows, []string{
			c.FullName(),
			c.ClientEmail,
			c.PhoneNumber,
			c.Channel,
			strings.Join(c.Tags, " | "),
		})
	}
	return rows
}

// Close stops the debounce timer.
func (lc *ListController) Close() {
	lc.debounce.Stop()
}
