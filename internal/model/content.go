package model

import "time"

// ContentType enumerates the kinds of items a brain can hold.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentAudio ContentType = "audio"
	ContentLink  ContentType = "link"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentText, ContentImage, ContentVideo, ContentAudio, ContentLink:
		return true
	}
	return false
}

// Content is a stored item together with the names of its tags.
type Content struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"userId"`
	Title     string      `json:"title"`
	Body      string      `json:"content"`
	Type      ContentType `json:"type"`
	IsPublic  bool        `json:"isPublic"`
	Tags      []string    `json:"tags"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CreateContentRequest is the body of POST /create-content.
type CreateContentRequest struct {
	Title    string   `json:"title" validate:"required,max=255"`
	Content  string   `json:"content" validate:"required"`
	Type     string   `json:"type" validate:"required,oneof=text image video audio link"`
	Tags     []string `json:"tags" validate:"max=50,dive,required,max=100"`
	IsPublic *bool    `json:"isPublic"`
}

// DeleteContentRequest is the body of DELETE /delete-content.
type DeleteContentRequest struct {
	ContentID int64 `json:"contentId" validate:"required,gt=0"`
}

// UpdateVisibilityRequest is the body of POST /update-content-status.
// A nil IsPublic flips the current value.
type UpdateVisibilityRequest struct {
	ContentID int64 `json:"contentId" validate:"required,gt=0"`
	IsPublic  *bool `json:"isPublic"`
}

// ContentCounts summarises a user's items by visibility.
type ContentCounts struct {
	Total   int64 `json:"total"`
	Public  int64 `json:"public"`
	Private int64 `json:"private"`
}
