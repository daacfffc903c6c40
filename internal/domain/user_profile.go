package domain

import "time"

// UserProfile is the public directory entry of a signed-in user. UserID is
// the identity provider's subject; ID is the store's serial.
type UserProfile struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Touch updates the UpdatedAt timestamp.
func (p *UserProfile) Touch() {
	p.UpdatedAt = time.Now()
}

// ProfileUpdate holds the editable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.DisplayName == nil
}
