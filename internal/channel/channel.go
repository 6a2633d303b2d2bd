// Package channel describes the messaging transports the platform supports.
package channel

import (
	"fmt"
	"sync"
)

// Descriptor describes one channel type
type Descriptor struct {
	// Type is the backend identifier (e.g. "twilio", "whatsapp")
	Type string

	// DisplayName is the label shown in the console
	DisplayName string

	// Selectable reports whether contacts can be created on this channel
	// (webchat contacts only ever come in from the widget)
	Selectable bool

	// PhoneHint describes the expected phone format for the contact form
	PhoneHint string
}

// Configured pairs a channel type with the backend id of the company's
// configured instance of it
type Configured struct {
	Type      string
	ChannelID string
}

// Registry manages the known channel descriptors
type Registry struct {
	mu    sync.RWMutex
	types map[string]Descriptor
	order []string
}

// NewRegistry creates an empty channel registry
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]Descriptor),
	}
}

// Register adds a descriptor to the registry
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[d.Type]; exists {
		return fmt.Errorf("channel type %s already registered", d.Type)
	}

	r.types[d.Type] = d
	r.order = append(r.order, d.Type)
	return nil
}

// Lookup returns the descriptor for a channel type
func (r *Registry) Lookup(channelType string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.types[channelType]
	return d, ok
}

// Selectable returns the registered types contacts may be created on,
// in registration order
func (r *Registry) Selectable() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Descriptor
	for _, t := range r.order {
		if d := r.types[t]; d.Selectable {
			out = append(out, d)
		}
	}
	return out
}

// All returns every registered descriptor in registration order
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.types[t])
	}
	return out
}

// ResolveID maps a channel type to the company's configured backend id.
// It returns "" when the company has no channel of that type.
func ResolveID(configured []Configured, channelType string) string {
	for _, c := range configured {
		if c.Type == channelType {
			return c.ChannelID
		}
	}
	return ""
}

// Global registry instance
var defaultRegistry = NewRegistry()

func init() {
	for _, d := range []Descriptor{
		{Type: "twilio", DisplayName: "Twilio", Selectable: true, PhoneHint: "+92XXXXXXXXXX (13 digits total)"},
		{Type: "whatsapp", DisplayName: "Whatsapp", Selectable: true, PhoneHint: "92XXXXXXXXXX (12 digits total)"},
		{Type: "smtp", DisplayName: "Smtp", Selectable: true, PhoneHint: "+92XXXXXXXXXX (13 digits total)"},
		{Type: "webchat", DisplayName: "Webchat", Selectable: false},
	} {
		if err := defaultRegistry.Register(d); err != nil {
			panic(err)
		}
	}
}

// Lookup returns a descriptor from the global registry
func Lookup(channelType string) (Descriptor, bool) {
	return defaultRegistry.Lookup(channelType)
}

// SelectableTypes returns the selectable descriptors from the global registry
func SelectableTypes() []Descriptor {
	return defaultRegistry.Selectable()
}

// AllTypes returns every descriptor from the global registry
func AllTypes() []Descriptor {
	return defaultRegistry.All()
}
