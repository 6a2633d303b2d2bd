package api

import (
	"context"
	"net/http"
)

// ListTeams fetches the company's teams.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var envelope struct {
		Data struct {
			Teams []Team `json:"teams"`
		} `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, "teams", nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Teams, nil
}

// CreateTeam creates a team owned by the given admin.
func (c *Client) CreateTeam(ctx context.Context, name, adminID string) error {
	payload := struct {
		Name    string `json:"teamName"`
		AdminID string `json:"adminId"`
	}{Name: name, AdminID: adminID}
	return c.call(ctx, http.MethodPost, "teams", nil, payload, nil)
}

// DeleteTeam removes a team.
func (c *Client) DeleteTeam(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "teams/"+id, nil, nil, nil)
}

// ListUsers fetches the company's users.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var envelope struct {
		Data struct {
			Users []User `json:"users"`
		} `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, "users", nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Users, nil
}

// ListCompanyAdmins fetches the users eligible to own a team.
func (c *Client) ListCompanyAdmins(ctx context.Context) ([]User, error) {
	var envelope struct {
		Data struct {
			Admins []User `json:"admins"`
		} `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, "users/get-company-admins", nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Admins, nil
}

// GetChannel fetches the configured channel of the given type
// (e.g. "twilio", "smtp"). The backend 404s when none is configured.
func (c *Client) GetChannel(ctx context.Context, channelType string) (Channel, error) {
	var envelope struct {
		Data struct {
			Channel Channel `json:"channel"`
		} `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, "channel/"+channelType+"/", nil, nil, &envelope); err != nil {
		return Channel{}, err
	}
	return envelope.Data.Channel, nil
}
