package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eschool/eschool-api/internal/api/metrics"
	"github.com/eschool/eschool-api/internal/core/ports"
)

type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

type createBookRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0"`
	FileURL     string  `json:"fileUrl"     validate:"omitempty,url"`
	CoverImage  string  `json:"coverImage"  validate:"omitempty,url"`
}

type createBookResponse struct {
	Message string       `json:"message"`
	Book    bookResponse `json:"book"`
}

// List handles GET /api/books.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Success      200  {array}   bookResponse
// @Failure      500  {object}  errorBody
// @Router       /api/books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]bookResponse, len(books))
	for i, b := range books {
		out[i] = toBookResponse(b)
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/books.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookRequest  true  "Book fields"
// @Success      201   {object}  createBookResponse
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /api/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.service.CreateBook(c.Request().Context(), ports.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		FileURL:     req.FileURL,
		CoverImage:  req.CoverImage,
	})
	if err != nil {
		return err
	}

	metrics.CatalogueCreatedTotal.WithLabelValues("book").Inc()
	return c.JSON(http.StatusCreated, createBookResponse{
		Message: "Book created successfully",
		Book:    toBookResponse(book),
	})
}
