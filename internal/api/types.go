package api

// Contact is a contact record as the backend stores it. The backend assigns
// IDs; phone numbers arrive in canonical digit form (with a leading "+" for
// non-WhatsApp channels).
type Contact struct {
	ID                   string   `json:"_id,omitempty"`
	FirstName            string   `json:"firstName"`
	LastName             string   `json:"lastName"`
	PhoneNumber          string   `json:"phoneNumber"`
	ClientEmail          string   `json:"clientEmail"`
	ClientBusinessDetail string   `json:"clientBusinessDetail"`
	Gender               string   `json:"gender"`
	Channel              string   `json:"channel,omitempty"`
	ChannelID            string   `json:"channelId,omitempty"`
	Tags                 []string `json:"tags"`
}

// FullName joins the name parts for display and export.
func (c Contact) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Channel is a configured channel instance as the settings endpoints
// return it.
type Channel struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	ChannelID   string `json:"channelId"`
	Description string `json:"description"`
}

// Team is a team record from the team-management endpoints.
type Team struct {
	ID      string   `json:"_id"`
	Name    string   `json:"teamName"`
	AdminID string   `json:"adminId"`
	Members []string `json:"members"`
}

// User is a platform user from the user-management endpoints.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
