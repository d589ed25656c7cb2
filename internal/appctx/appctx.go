// Package appctx holds the signed-in user and active profile that view models
// are parameterized by. It is passed explicitly instead of being read from
// global storage.
package appctx

// DefaultPhotoURL is shown for profiles without a usable photo
const DefaultPhotoURL = "/images/baby-42-128.png"

// User is the identity returned by the session provider
type User struct {
	ID    string
	Email string
	Name  string
}

// Profile is the active child profile
type Profile struct {
	ID       int64
	Name     string
	PhotoURL string
}

// Photo returns the profile photo or the default avatar
func (p Profile) Photo() string {
	if p.PhotoURL == "" {
		return DefaultPhotoURL
	}
	return p.PhotoURL
}

// Context is the session/profile pair for one client session
type Context struct {
	User    *User
	Profile *Profile
}

// Ready reports whether both a user and a profile are known
func (c Context) Ready() bool {
	return c.User != nil && c.User.ID != "" && c.Profile != nil && c.Profile.ID != 0
}

// UserID returns the signed-in user's ID or ""
func (c Context) UserID() string {
	if c.User == nil {
		return ""
	}
	return c.User.ID
}

// ProfileID returns the active profile ID or 0
func (c Context) ProfileID() int64 {
	if c.Profile == nil {
		return 0
	}
	return c.Profile.ID
}

// WithProfile returns a copy of c with p as the active profile
func (c Context) WithProfile(p *Profile) Context {
	c.Profile = p
	return c
}
