package model

import "time"

// ShareLink grants anonymous read access to a user's public content.
// A user has at most one.
type ShareLink struct {
	Hash      string    `json:"hash"`
	UserID    int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShareBrainRequest is the body of POST /share-brain.
type ShareBrainRequest struct {
	Share *bool `json:"share" validate:"required"`
}

// ShareStatus reports whether the caller's brain is shared.
type ShareStatus struct {
	Shared bool   `json:"shared"`
	Hash   string `json:"hash,omitempty"`
}

// PublicBrain is what anonymous visitors see through a share link.
type PublicBrain struct {
	Username string    `json:"username"`
	Contents []Content `json:"contents"`
}
