package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opencampus/coursehub/internal/config"
	"github.com/opencampus/coursehub/internal/domain/course"
)

type CourseStore interface {
	Create(ctx context.Context, req course.CreateCourseRequest) (course.Course, error)
	List(ctx context.Context) ([]course.Course, error)
	GetByID(ctx context.Context, id string) (course.Course, error)
	Update(ctx context.Context, id string, req course.UpdateCourseRequest) (course.Course, error)
	Delete(ctx context.Context, id string) error
}

type CourseListCache interface {
	GetList(ctx context.Context) ([]course.Course, bool)
	SetList(ctx context.Context, items []course.Course)
	InvalidateList(ctx context.Context)
}

type CoursesHandler struct {
	repo  CourseStore
	cache CourseListCache
}

// cache may be nil, the handler then always hits the store.
func NewCoursesHandler(repo CourseStore, cache CourseListCache) *CoursesHandler {
	return &CoursesHandler{repo: repo, cache: cache}
}

func (h *CoursesHandler) Create(ctx *gin.Context) {
	var req course.CreateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "could not create course")
		return
	}

	if h.cache != nil {
		h.cache.InvalidateList(cctx)
	}

	ctx.JSON(http.StatusCreated, c)
}

func (h *CoursesHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if h.cache != nil {
		if items, ok := h.cache.GetList(cctx); ok {
			ctx.JSON(http.StatusOK, gin.H{
				"items": items,
				"count": len(items),
			})
			return
		}
	}

	items, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "could not list courses")
		return
	}

	if h.cache != nil {
		h.cache.SetList(cctx, items)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *CoursesHandler) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondBadRequest(ctx, "course id must be a valid UUID")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "course not found")
			return
		}
		RespondInternal(ctx, "could not fetch course")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CoursesHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondBadRequest(ctx, "course id must be a valid UUID")
		return
	}

	var req course.UpdateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	c, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "course not found")
			return
		}
		RespondInternal(ctx, "could not update course")
		return
	}

	if h.cache != nil {
		h.cache.InvalidateList(cctx)
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CoursesHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondBadRequest(ctx, "course id must be a valid UUID")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "course not found")
			return
		}
		RespondInternal(ctx, "could not delete course")
		return
	}

	if h.cache != nil {
		h.cache.InvalidateList(cctx)
	}

	ctx.Status(http.StatusNoContent)
}
