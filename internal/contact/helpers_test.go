package contact

import (
	"context"
	"sync"

	"github.com/AdnanSadiqsb/botnflow-console/internal/api"
)

type listCall struct {
	search  string
	channel string
}

type tagPatch struct {
	id   string
	tags []string
}

// fakeService records every backend call and serves a canned contact list.
type fakeService struct {
	mu sync.Mutex

	contacts  []api.Contact
	listCalls []listCall
	created   []api.Contact
	updated   map[string]api.Contact
	tagCalls  []tagPatch
	deleted   []string

	listErr   error
	createErr error
	updateErr error
	tagErr    error
	deleteErr error
}

func newFakeService(contacts ...api.Contact) *fakeService {
	return &fakeService{
		contacts: contacts,
		updated:  make(map[string]api.Contact),
	}
}

func (s *fakeService) ListContacts(_ context.Context, search, channel string) ([]api.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls = append(s.listCalls, listCall{search: search, channel: channel})
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]api.Contact(nil), s.contacts...), nil
}

func (s *fakeService) CreateContact(_ context.Context, c api.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, c)
	return nil
}

func (s *fakeService) UpdateContact(_ context.Context, id string, c api.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated[id] = c
	return nil
}

func (s *fakeService) UpdateContactTags(_ context.Context, id string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tagErr != nil {
		return s.tagErr
	}
	s.tagCalls = append(s.tagCalls, tagPatch{id: id, tags: append([]string(nil), tags...)})
	return nil
}

func (s *fakeService) DeleteContact(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	for i, c := range s.contacts {
		if c.ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeService) listCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listCalls)
}

func (s *fakeService) lastListCall() listCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listCalls) == 0 {
		return listCall{}
	}
	return s.listCalls[len(s.listCalls)-1]
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) lastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.errors) == 0 {
		return ""
	}
	return n.errors[len(n.errors)-1]
}
