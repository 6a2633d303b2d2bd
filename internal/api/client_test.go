package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(WithBaseURL(serverURL), WithToken("test-token"))
}

func TestListContacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/contacts", r.URL.Path)
		assert.Equal(t, "ali", r.URL.Query().Get("search"))
		assert.Equal(t, "whatsapp", r.URL.Query().Get("channel"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"contacts": []map[string]any{
					{
						"_id":         "c1",
						"firstName":   "Ali",
						"lastName":    "Khan",
						"phoneNumber": "923001234567",
						"clientEmail": "ali@example.com",
						"channel":     "whatsapp",
						"tags":        []string{"vip"},
					},
				},
			},
		})
	}))
	defer srv.Close()

	contacts, err := newTestClient(srv.URL).ListContacts(context.Background(), "ali", "whatsapp")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "c1", contacts[0].ID)
	assert.Equal(t, "Ali Khan", contacts[0].FullName())
	assert.Equal(t, []string{"vip"}, contacts[0].Tags)
}

func TestListContactsOmitsEmptyFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"contacts": []any{}}})
	}))
	defer srv.Close()

	contacts, err := newTestClient(srv.URL).ListContacts(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestCreateContact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "923001234567", payload["phoneNumber"])
		assert.NotContains(t, payload, "_id")

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"contact": map[string]any{"_id": "c9"}}})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).CreateContact(context.Background(), Contact{
		FirstName:   "Ali",
		PhoneNumber: "923001234567",
		Channel:     "whatsapp",
	})
	assert.NoError(t, err)
}

func TestUpdateContactTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/contacts/c1", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, map[string]any{"tags": []any{"vip", "lead"}}, payload)

		json.NewEncoder(w).Encode(map[string]any{"data": true})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).UpdateContactTags(context.Background(), "c1", []string{"vip", "lead"})
	assert.NoError(t, err)
}

func TestDeleteContact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/contacts/c1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, newTestClient(srv.URL).DeleteContact(context.Background(), "c1"))
}

func TestBackendErrorMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"message": "contact already exists"})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).CreateContact(context.Background(), Contact{})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusConflict, reqErr.StatusCode)
	assert.Equal(t, "contact already exists", reqErr.Message)
}

func TestBackendErrorWithoutMessageFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).DeleteContact(context.Background(), "c1")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, GenericFailure, reqErr.Message)
}

func TestTransportFailureBecomesRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).ListUsers(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, GenericFailure, reqErr.Message)
	assert.Error(t, errors.Unwrap(reqErr))
}

func TestListTeamsAndUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/teams":
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"teams": []map[string]any{
				{"_id": "t1", "teamName": "Support", "adminId": "u1", "members": []string{"u2"}},
			}}})
		case "/users":
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"users": []map[string]any{
				{"_id": "u1", "name": "Sara", "email": "sara@example.com", "role": "admin"},
			}}})
		case "/users/get-company-admins":
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"admins": []map[string]any{
				{"_id": "u1", "name": "Sara"},
			}}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	teams, err := client.ListTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Support", teams[0].Name)

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "sara@example.com", users[0].Email)

	admins, err := client.ListCompanyAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)
}

func TestGetChannel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channel/twilio/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"channel": map[string]any{
			"_id":       "ch1",
			"name":      "Main line",
			"type":      "twilio",
			"channelId": "68516579b5e80164e8afed3e",
		}}})
	}))
	defer srv.Close()

	ch, err := newTestClient(srv.URL).GetChannel(context.Background(), "twilio")
	require.NoError(t, err)
	assert.Equal(t, "68516579b5e80164e8afed3e", ch.ChannelID)
	assert.Equal(t, "Main line", ch.Name)
}
