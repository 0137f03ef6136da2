package handler

import (
	"time"

	"github.com/eschool/eschool-api/internal/core/domain"
	"github.com/eschool/eschool-api/internal/core/ports"
)

// errorBody documents the {"message"} envelope rendered by the error handler.
type errorBody struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type lessonPayload struct {
	Title   string `json:"title"   validate:"required"`
	Content string `json:"content"`
	Order   int    `json:"order"   validate:"gte=0"`
}

type instructorResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type courseResponse struct {
	ID          string              `json:"_id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Price       float64             `json:"price"`
	Instructor  *instructorResponse `json:"instructor"`
	Lessons     []lessonPayload     `json:"lessons"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type bookResponse struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Author      string  `json:"author,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	FileURL     string  `json:"fileUrl,omitempty"`
	CoverImage  string  `json:"coverImage,omitempty"`
}

func toCourseResponse(d ports.CourseDetail) courseResponse {
	resp := courseResponse{
		ID:          d.Course.ID,
		Title:       d.Course.Title,
		Description: d.Course.Description,
		Price:       d.Course.Price,
		Lessons:     make([]lessonPayload, len(d.Course.Lessons)),
		ImageURL:    d.Course.ImageURL,
		CreatedAt:   d.Course.CreatedAt,
	}
	for i, l := range d.Course.Lessons {
		resp.Lessons[i] = lessonPayload{Title: l.Title, Content: l.Content, Order: l.Order}
	}
	if d.Instructor != nil {
		resp.Instructor = &instructorResponse{ID: d.Instructor.ID, Name: d.Instructor.Name, Email: d.Instructor.Email}
	}
	return resp
}

func toCourseResponses(details []ports.CourseDetail) []courseResponse {
	out := make([]courseResponse, len(details))
	for i, d := range details {
		out[i] = toCourseResponse(d)
	}
	return out
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Price:       b.Price,
		FileURL:     b.FileURL,
		CoverImage:  b.CoverImage,
	}
}
