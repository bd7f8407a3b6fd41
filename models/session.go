package models

// Session holds the remote access credentials returned by the password and
// refresh grants. ExpiresAt is a Unix timestamp in seconds.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	UserID       string `json:"-"`
}

// Expired reports whether the access token is past (or within margin of)
// its expiry at the given Unix time.
func (s Session) Expired(nowUnix, marginSeconds int64) bool {
	if s.AccessToken == "" {
		return true
	}
	return s.ExpiresAt-marginSeconds <= nowUnix
}
