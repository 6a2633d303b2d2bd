package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListContacts fetches the company's contacts. Empty search or channel
// leaves the corresponding query parameter off so the backend returns the
// unfiltered list.
func (c *Client) ListContacts(ctx context.Context, search, channel string) ([]Contact, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if channel != "" {
		query.Set("channel", channel)
	}

	var envelope struct {
		Data struct {
			Contacts []Contact `json:"contacts"`
		} `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, "contacts", query, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Contacts, nil
}

// CreateContact creates a contact and returns nothing; callers re-fetch the
// list to see the backend-assigned id.
func (c *Client) CreateContact(ctx context.Context, contact Contact) error {
	return c.call(ctx, http.MethodPost, "contacts", nil, contact, nil)
}

// UpdateContact replaces the editable fields of an existing contact.
func (c *Client) UpdateContact(ctx context.Context, id string, contact Contact) error {
	return c.call(ctx, http.MethodPatch, "contacts/"+id, nil, contact, nil)
}

// UpdateContactTags replaces just the tag list of a contact.
func (c *Client) UpdateContactTags(ctx context.Context, id string, tags []string) error {
	payload := struct {
		Tags []string `json:"tags"`
	}{Tags: tags}
	return c.call(ctx, http.MethodPatch, "contacts/"+id, nil, payload, nil)
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "contacts/"+id, nil, nil, nil)
}
