package types

import "time"

// MaxInterests mirrors the three interest-group slots on the member form.
const MaxInterests = 3

type Member struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Mobile       string     `json:"mobile,omitempty"`
	Address      string     `json:"address,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Relationship string     `json:"relationship,omitempty"`
	Interests    []string   `json:"interests,omitempty"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MemberInput is the editable subset of Member accepted on create/update.
type MemberInput struct {
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Mobile       string     `json:"mobile,omitempty"`
	Address      string     `json:"address,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Relationship string     `json:"relationship,omitempty"`
	Interests    []string   `json:"interests,omitempty"`
	PhotoURL     string     `json:"photo_url,omitempty"`
}
