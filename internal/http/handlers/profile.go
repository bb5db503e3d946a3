package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/coursehub/internal/config"
	"github.com/opencampus/coursehub/internal/domain/user"
	"github.com/opencampus/coursehub/internal/http/middlewares"
	"github.com/opencampus/coursehub/internal/security"
)

type ProfileStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	EmailTakenByOther(ctx context.Context, email, id string) (bool, error)
	UpdateProfile(ctx context.Context, id, name, email, passwordHash string) (user.User, error)
}

type ProfileHandler struct {
	users ProfileStore
}

func NewProfileHandler(users ProfileStore) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Update fields are merged only when non-empty; an explicit empty string
// cannot clear a field.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *ProfileHandler) Get(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "token not found")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	// fresh read, unlike the role cached in the token
	u, err := h.users.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "user not found")
			return
		}
		RespondInternal(ctx, "could not load profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "profile data",
		"data": gin.H{
			"id":         u.ID,
			"name":       u.Name,
			"email":      u.Email,
			"role":       u.Role,
			"created_at": u.CreatedAt,
		},
	})
}

func (h *ProfileHandler) Update(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "token not found")
		return
	}

	var req UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	current, err := h.users.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "user not found")
			return
		}
		RespondInternal(ctx, "could not load profile")
		return
	}

	name := current.Name
	if req.Name != "" {
		name = req.Name
	}

	email := current.Email
	if req.Email != "" {
		email = req.Email
	}

	hash := current.PasswordHash
	if req.Password != "" {
		hash, err = security.HashPassword(req.Password)

		if err != nil {
			RespondInternal(ctx, "could not update profile")
			return
		}
	}

	if email != current.Email {
		taken, err := h.users.EmailTakenByOther(cctx, email, current.ID)

		if err != nil {
			RespondInternal(ctx, "could not update profile: "+err.Error())
			return
		}

		if taken {
			RespondConflict(ctx, "email already used by another user")
			return
		}
	}

	updated, err := h.users.UpdateProfile(cctx, current.ID, name, email, hash)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			// concurrent update won the email; the constraint is the arbiter
			RespondConflict(ctx, "email already used by another user")
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "user not found")
		default:
			RespondInternal(ctx, "could not update profile: "+err.Error())
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "profile updated successfully",
		"data": gin.H{
			"id":    updated.ID,
			"name":  updated.Name,
			"email": updated.Email,
		},
	})
}
