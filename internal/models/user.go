package models

import "time"

// User represents a student account in the system.
type User struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Never expose this to the client
	Phone         string    `json:"phone,omitempty"`
	Country       string    `json:"country,omitempty"`
	BirthDate     string    `json:"birthDate,omitempty"`
	University    string    `json:"university,omitempty"`
	SpanishLevel  string    `json:"spanishLevel,omitempty"`
	StartDate     string    `json:"startDate,omitempty"`
	Motivation    string    `json:"motivation,omitempty"`
	Newsletter    bool      `json:"newsletter"`
	EmailVerified bool      `json:"emailVerified"`
	IsActive      bool      `json:"isActive"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Sanitize strips the password hash so the record is safe to return to a
// client. Applied to every user that crosses the API boundary.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}

// UserSummary is the trimmed listing row returned to administrators.
type UserSummary struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	SpanishLevel string    `json:"spanishLevel,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStats aggregates per-user activity counts shown on the dashboard.
type UserStats struct {
	AttendanceCount      int `json:"attendanceCount"`
	ForumPostsCount      int `json:"forumPostsCount"`
	AIConversationsCount int `json:"aiConversationsCount"`
}
