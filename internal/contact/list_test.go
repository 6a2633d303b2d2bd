package contact

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdnanSadiqsb/botnflow-console/internal/api"
)

func someContacts(n int) []api.Contact {
	out := make([]api.Contact, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, api.Contact{
			ID:          fmt.Sprintf("c%d", i+1),
			FirstName:   fmt.Sprintf("First%d", i+1),
			LastName:    "Last",
			PhoneNumber: "923001234567",
			Channel:     "whatsapp",
			Tags:        []string{"vip"},
		})
	}
	return out
}

func TestRefreshReplacesCache(t *testing.T) {
	svc := newFakeService(someContacts(3)...)
	lc := NewListController(svc, &recordingNotifier{})

	lc.Refresh(context.Background(), true)

	assert.Len(t, lc.Contacts(), 3)
	assert.False(t, lc.Loading())
	assert.Equal(t, listCall{}, svc.lastListCall(), "no filters on a plain refresh")
}

func TestRefreshFailureLeavesCacheIntact(t *testing.T) {
	svc := newFakeService(someContacts(2)...)
	notifier := &recordingNotifier{}
	lc := NewListController(svc, notifier)
	lc.Refresh(context.Background(), true)

	svc.mu.Lock()
	svc.listErr = &api.RequestError{Message: "backend down"}
	svc.mu.Unlock()
	lc.Refresh(context.Background(), true)

	assert.Len(t, lc.Contacts(), 2)
	assert.Equal(t, "backend down", notifier.lastError())
	assert.False(t, lc.Loading())
}

func TestDebouncedSearchFiresOnce(t *testing.T) {
	svc := newFakeService(someContacts(1)...)
	lc := NewListController(svc, &recordingNotifier{}, WithDebounce(50*time.Millisecond))
	defer lc.Close()

	ctx := context.Background()
	lc.SetSearchTerm(ctx, "a")
	time.Sleep(10 * time.Millisecond)
	lc.SetSearchTerm(ctx, "ab")
	time.Sleep(10 * time.Millisecond)
	lc.SetSearchTerm(ctx, "abc")

	assert.Equal(t, 0, svc.listCallCount(), "nothing fires inside the quiet period")

	require.Eventually(t, func() bool {
		return svc.listCallCount() == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, listCall{search: "abc"}, svc.lastListCall())

	// No further requests from the settled burst.
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, svc.listCallCount())
}

func TestDebouncedSearchSkipsUnchangedTerm(t *testing.T) {
	svc := newFakeService()
	lc := NewListController(svc, &recordingNotifier{}, WithDebounce(10*time.Millisecond))
	defer lc.Close()

	ctx := context.Background()
	lc.SetSearchTerm(ctx, "abc")
	require.Eventually(t, func() bool { return svc.listCallCount() == 1 }, time.Second, 5*time.Millisecond)

	// Typing back to the committed value settles without a request.
	lc.SetSearchTerm(ctx, "abcd")
	lc.SetSearchTerm(ctx, "abc")
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, svc.listCallCount())
}

func TestSearchCommitResetsPage(t *testing.T) {
	svc := newFakeService(someContacts(12)...)
	lc := NewListController(svc, &recordingNotifier{}, WithDebounce(10*time.Millisecond))
	defer lc.Close()

	ctx := context.Background()
	lc.Refresh(ctx, true)
	lc.SetPage(3)
	require.Equal(t, 3, lc.Page())

	lc.SetSearchTerm(ctx, "ali")
	require.Eventually(t, func() bool { return lc.Page() == 1 }, time.Second, 5*time.Millisecond)
}

func TestChannelFilterResetsPageAndRefetches(t *testing.T) {
	svc := newFakeService(someContacts(12)...)
	lc := NewListController(svc, &recordingNotifier{})

	ctx := context.Background()
	lc.Refresh(ctx, true)
	lc.SetPage(2)

	lc.SetChannelFilter(ctx, "whatsapp")
	assert.Equal(t, 1, lc.Page())
	assert.Equal(t, listCall{channel: "whatsapp"}, svc.lastListCall())

	calls := svc.listCallCount()
	lc.SetChannelFilter(ctx, "whatsapp")
	assert.Equal(t, calls, svc.listCallCount(), "setting the same filter is a no-op")
}

func TestPaginationIsAPureSlice(t *testing.T) {
	svc := newFakeService(someContacts(12)...)
	lc := NewListController(svc, &recordingNotifier{})
	lc.Refresh(context.Background(), true)
	calls := svc.listCallCount()

	assert.Equal(t, 3, lc.TotalPages())

	lc.SetPage(2)
	page := lc.PageContacts()
	require.Len(t, page, PageSize)
	assert.Equal(t, "c6", page[0].ID)

	lc.SetPage(3)
	assert.Len(t, lc.PageContacts(), 2)

	lc.SetPage(99)
	assert.Equal(t, 3, lc.Page())
	lc.SetPage(0)
	assert.Equal(t, 1, lc.Page())

	assert.Equal(t, calls, svc.listCallCount(), "paging never hits the network")
}

func TestDeleteRefetchesOnSuccess(t *testing.T) {
	svc := newFakeService(someContacts(3)...)
	notifier := &recordingNotifier{}
	lc := NewListController(svc, notifier)
	ctx := context.Background()
	lc.Refresh(ctx, true)

	ok := lc.Delete(ctx, "c2")

	assert.True(t, ok)
	assert.Equal(t, []string{"c2"}, svc.deleted)
	assert.Equal(t, []string{"Contact Deleted Successfully"}, notifier.successes)

	ids := make([]string, 0)
	for _, c := range lc.Contacts() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c1", "c3"}, ids, "cache reconciled via re-fetch")
}

func TestDeleteFailureLeavesCache(t *testing.T) {
	svc := newFakeService(someContacts(3)...)
	notifier := &recordingNotifier{}
	lc := NewListController(svc, notifier)
	ctx := context.Background()
	lc.Refresh(ctx, true)

	svc.mu.Lock()
	svc.deleteErr = &api.RequestError{Message: "nope"}
	svc.mu.Unlock()

	ok := lc.Delete(ctx, "c2")

	assert.False(t, ok)
	assert.Equal(t, "Failed to delete contact", notifier.lastError())
	assert.Len(t, lc.Contacts(), 3)
}

func TestTagSessionLifecycle(t *testing.T) {
	svc := newFakeService(someContacts(2)...)
	lc := NewListController(svc, &recordingNotifier{})
	lc.Refresh(context.Background(), true)

	assert.Nil(t, lc.Session())
	require.True(t, lc.OpenTagSession("c1"))

	s := lc.Session()
	require.NotNil(t, s)
	assert.Equal(t, "c1", s.ContactID)
	assert.Equal(t, []string{"vip"}, s.Tags)

	// Opening another session replaces the first.
	require.True(t, lc.OpenTagSession("c2"))
	assert.Equal(t, "c2", lc.Session().ContactID)

	lc.CloseTagSession()
	assert.Nil(t, lc.Session())

	assert.False(t, lc.OpenTagSession("missing"))
}

func TestAddSessionTag(t *testing.T) {
	svc := newFakeService(someContacts(1)...)
	notifier := &recordingNotifier{}
	lc := NewListController(svc, notifier)
	ctx := context.Background()
	lc.Refresh(ctx, true)
	require.True(t, lc.OpenTagSession("c1"))

	before := svc.listCallCount()
	lc.SetSessionInput("  lead ")
	lc.AddSessionTag(ctx)

	require.Len(t, svc.tagCalls, 1)
	assert.Equal(t, tagPatch{id: "c1", tags: []string{"vip", "lead"}}, svc.tagCalls[0])

	s := lc.Session()
	require.NotNil(t, s)
	assert.Equal(t, []string{"vip", "lead"}, s.Tags)
	assert.Empty(t, s.PendingInput)
	assert.Equal(t, []string{"vip", "lead"}, lc.Contacts()[0].Tags, "cache mirrors the session")

	assert.Equal(t, before+1, svc.listCallCount(), "tag add reconciles with a background refresh")
	assert.Equal(t, []string{"Tag added successfully"}, notifier.successes)
}

func TestAddSessionTagEmptyInputIsNoop(t *testing.T) {
	svc := newFakeService(someContacts(1)...)
	lc := NewListController(svc, &recordingNotifier{})
	ctx := context.Background()
	lc.Refresh(ctx, true)
	require.True(t, lc.OpenTagSession("c1"))

	lc.SetSessionInput("   ")
	lc.AddSessionTag(ctx)

	assert.Empty(t, svc.tagCalls)
}

func TestAddSessionTagFailureChangesNothing(t *testing.T) {
	svc := newFakeService(someContacts(1)...)
	notifier := &recordingNotifier{}
	lc := NewListController(svc, notifier)
	ctx := context.Background()
	lc.Refresh(ctx, true)
	require.True(t, lc.OpenTagSession("c1"))

	svc.mu.Lock()
	svc.tagErr = &api.RequestError{Message: "nope"}
	svc.mu.Unlock()

	lc.SetSessionInput("lead")
	lc.AddSessionTag(ctx)

	assert.Equal(t, "Failed to add tag", notifier.lastError())
	assert.Equal(t, []string{"vip"}, lc.Session().Tags)
	assert.Equal(t, []string{"vip"}, lc.Contacts()[0].Tags)
}

func TestRemoveSessionTag(t *testing.T) {
	contacts := someContacts(1)
	contacts[0].Tags = []string{"vip", "lead", "vip"}
	svc := newFakeService(contacts...)
	notifier := &recordingNotifier{}
	lc := NewListController(svc, notifier)
	ctx := context.Background()
	lc.Refresh(ctx, true)
	require.True(t, lc.OpenTagSession("c1"))

	before := svc.listCallCount()
	lc.RemoveSessionTag(ctx, "vip")

	require.Len(t, svc.tagCalls, 1)
	assert.Equal(t, []string{"lead", "vip"}, svc.tagCalls[0].tags, "only the first occurrence goes")
	assert.Equal(t, []string{"lead", "vip"}, lc.Session().Tags)
	assert.Equal(t, []string{"lead", "vip"}, lc.Contacts()[0].Tags)

	assert.Equal(t, before, svc.listCallCount(), "tag removal does not trigger a background refresh")
	assert.Equal(t, []string{"Tag removed successfully"}, notifier.successes)
}

func TestExportRowsProjectFullCache(t *testing.T) {
	svc := newFakeService(someContacts(7)...)
	lc := NewListController(svc, &recordingNotifier{})
	lc.Refresh(context.Background(), true)
	lc.SetPage(2)

	rows := lc.ExportRows()
	require.Len(t, rows, 7, "export covers the whole cache, not the page")
	assert.Equal(t, []string{"First1 Last", "", "923001234567", "whatsapp", "vip"}, rows[0])
}

func TestStaleListResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	blocking := &blockingService{
		fakeService: newFakeService(someContacts(1)...),
		release:     release,
		started:     make(chan struct{}),
	}
	lc := NewListController(blocking, &recordingNotifier{})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		lc.Refresh(ctx, false) // first request, will finish last
		close(done)
	}()

	// Wait for the first request to be in flight, then complete a second
	// one entirely.
	<-blocking.started
	lc.Refresh(ctx, false)
	require.Len(t, lc.Contacts(), 1)

	// Mutate what the slow first request will return, then let it finish.
	blocking.mu.Lock()
	blocking.contacts = nil
	blocking.mu.Unlock()
	close(release)
	<-done

	assert.Len(t, lc.Contacts(), 1, "the older response must not overwrite the newer one")
}

// blockingService stalls the first ListContacts call until released.
type blockingService struct {
	*fakeService
	release chan struct{}
	started chan struct{}
	once    bool
}

func (s *blockingService) ListContacts(ctx context.Context, search, channel string) ([]api.Contact, error) {
	s.mu.Lock()
	first := !s.once
	s.once = true
	s.mu.Unlock()

	if first {
		close(s.started)
		<-s.release
	}
	return s.fakeService.ListContacts(ctx, search, channel)
}
