package models

import "time"

// Attendance is a single class attendance record.
type Attendance struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	QRCode       string     `json:"qrCode,omitempty"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
}

// ForumPost is a thread-opening message on the student forum.
type ForumPost struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	IsPinned   bool      `json:"isPinned"`
	ReplyCount int       `json:"replyCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ForumReply is a response inside a forum thread.
type ForumReply struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Conversation is one exchange with the AI tutor.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}

// Resource is a downloadable course material.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileURL     string    `json:"fileUrl,omitempty"`
	FileType    string    `json:"fileType,omitempty"`
	Category    string    `json:"category,omitempty"`
	Week        int       `json:"week,omitempty"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
