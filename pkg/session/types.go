package session

import (
	"fmt"
	"time"
)

// DisplayUser is decoded from the token payload without verifying it. It is
// for display only and must never drive an authorization decision.
type DisplayUser struct {
	ID   string
	Role string
	Name string
}

// Result is the outcome of Login and Signup. Exactly one of Message (on
// failure) and User (on success) is meaningful.
type Result struct {
	Success bool
	Message string
	User    *DisplayUser
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eschool api: %d %s", e.Status, e.Message)
}

// SignupRequest is the signup form. SecretKey is only needed for the
// instructor and admin roles.
type SignupRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
	SecretKey string `json:"secretKey,omitempty"`
}

type Instructor struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Lesson struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	Order   int    `json:"order"`
}

type Course struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Price       float64     `json:"price"`
	Instructor  *Instructor `json:"instructor"`
	Lessons     []Lesson    `json:"lessons"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// NewCourse is the body of a create-course call.
type NewCourse struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Lessons     []Lesson `json:"lessons,omitempty"`
}

type Book struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Author      string  `json:"author,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	FileURL     string  `json:"fileUrl,omitempty"`
	CoverImage  string  `json:"coverImage,omitempty"`
}

// NewBook is the body of a create-book call.
type NewBook struct {
	Title       string  `json:"title"`
	Author      string  `json:"author,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	FileURL     string  `json:"fileUrl,omitempty"`
	CoverImage  string  `json:"coverImage,omitempty"`
}
