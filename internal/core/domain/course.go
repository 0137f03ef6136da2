package domain

import "time"

// Lesson is a single ordered unit of a course.
type Lesson struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// Course is a catalogue entry students can enroll in.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	InstructorID string    `json:"instructorId"`
	Lessons      []Lesson  `json:"lessons"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Book is a catalogue entry with no enrollment semantics.
type Book struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	FileURL     string  `json:"fileUrl"`
	CoverImage  string  `json:"coverImage"`
}
