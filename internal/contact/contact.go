// Package contact holds the controllers behind the console's contact
// screens: the create/edit form, the server-synced list, and the inline
// tag-editing session.
package contact

import (
	"context"

	"github.com/AdnanSadiqsb/botnflow-console/internal/api"
)

// Service is the slice of the backend client the controllers need.
// *api.Client satisfies it.
type Service interface {
	ListContacts(ctx context.Context, search, channel string) ([]api.Contact, error)
	CreateContact(ctx context.Context, contact api.Contact) error
	UpdateContact(ctx context.Context, id string, contact api.Contact) error
	UpdateContactTags(ctx context.Context, id string, tags []string) error
	DeleteContact(ctx context.Context, id string) error
}

// Notifier receives the user-visible outcome of every operation. The TUI
// renders these on its status line; tests capture them.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
