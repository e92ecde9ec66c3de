package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	profileBaseURL = "https://www.instagram.com/"
	avatarBaseURL  = "https://api.dicebear.com/7.x/avataaars/svg"
	avatarPalette  = "b6e3f4,c0aede,d1d4f9,ffd5dc,ffdfbf"
)

// InstagramUser is one account found in an export
type InstagramUser struct {
	Username string `json:"username"`
	// FollowedAt is when the relationship was observed; zero when unknown
	FollowedAt time.Time `json:"followed_at,omitempty"`
}

// NewUser creates a user with a trimmed username
func NewUser(username string, followedAt time.Time) InstagramUser {
	return InstagramUser{Username: strings.TrimSpace(username), FollowedAt: followedAt}
}

// Key returns the identity of the user. Instagram usernames are case-insensitive.
func (u InstagramUser) Key() string {
	return strings.ToLower(u.Username)
}

// ProfileURL returns the public profile link
func (u InstagramUser) ProfileURL() string {
	return profileBaseURL + url.PathEscape(u.Username)
}

// AvatarURL returns a generated avatar seeded by the username
func (u InstagramUser) AvatarURL() string {
	return fmt.Sprintf("%s?seed=%s&backgroundColor=%s", avatarBaseURL, url.QueryEscape(u.Username), avatarPalette)
}

// HasTimestamp reports whether the export carried a timestamp for the user
func (u InstagramUser) HasTimestamp() bool {
	return !u.FollowedAt.IsZero()
}
