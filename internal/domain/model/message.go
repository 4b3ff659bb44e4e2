package model

import "time"

// MediaType classifies a message attachment.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Valid reports whether the media type is supported.
func (t MediaType) Valid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// Media is an attachment carried by a message. Images travel inline as
// base64 data URIs; videos carry the URI the sender provided.
type Media struct {
	URL  string
	Type MediaType
}

// Message is a single conversation entry. System messages are authored by
// the server and have no human sender.
type Message struct {
	ID              string
	SenderID        string
	SenderName      string
	Body            string
	Media           *Media
	IsSystemMessage bool
	CreatedAt       time.Time
}

// Empty reports whether the message carries neither text nor media.
func (m *Message) Empty() bool {
	return m.Body == "" && m.Media == nil
}
