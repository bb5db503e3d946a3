package course

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("course not found")

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}
