package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/coursehub/internal/auth"
	"github.com/opencampus/coursehub/internal/domain/user"
	"github.com/opencampus/coursehub/internal/http/handlers"
	"github.com/opencampus/coursehub/internal/http/middlewares"
	"github.com/opencampus/coursehub/internal/security"
)

func jsonBody(s string) *bytes.Buffer {
	return bytes.NewBufferString(s)
}

func jsonContains(body []byte, needle string) bool {
	return bytes.Contains(body, []byte(needle))
}

type fakeProfileStore struct {
	getByIDFn getByIDFunc
	takenFn   func(ctx context.Context, email, id string) (bool, error)
	updateFn  func(ctx context.Context, id, name, email, passwordHash string) (user.User, error)
}

type getByIDFunc func(ctx context.Context, id string) (user.User, error)

func (f *fakeProfileStore) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeProfileStore) EmailTakenByOther(ctx context.Context, email, id string) (bool, error) {
	if f.takenFn != nil {
		return f.takenFn(ctx, email, id)
	}
	return false, nil
}

func (f *fakeProfileStore) UpdateProfile(ctx context.Context, id, name, email, passwordHash string) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, name, email, passwordHash)
	}
	return user.User{}, nil
}

type fakeVerifier struct {
	identity auth.Identity
	err      error
}

func (f *fakeVerifier) Verify(token string) (auth.Identity, error) {
	if f.err != nil {
		return auth.Identity{}, f.err
	}
	return f.identity, nil
}

// mounts the profile routes behind the real auth middleware with a fake verifier

func setupProfileRouter(store *fakeProfileStore, identity auth.Identity) *gin.Engine {
	r := gin.New()

	authMW := middlewares.NewAuthMiddleware(&fakeVerifier{identity: identity})
	h := handlers.NewProfileHandler(store)

	protected := r.Group("")
	protected.Use(authMW.RequireAuth())
	protected.GET("/profile", h.Get)
	protected.PUT("/profile", h.Update)
	protected.PATCH("/profile", h.Update)

	return r
}

func doAuthed(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var w *httptest.ResponseRecorder

	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, jsonBody(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer some-token")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetProfile(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	stored := user.User{
		ID:           "id-1",
		Name:         "A",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$hash",
		Role:         user.RoleUser,
		CreatedAt:    created,
	}

	t.Run("success", func(t *testing.T) {
		store := &fakeProfileStore{
			getByIDFn: func(ctx context.Context, id string) (user.User, error) {
				if id != "id-1" {
					t.Errorf("looked up id %q, want id-1", id)
				}
				return stored, nil
			},
		}

		r := setupProfileRouter(store, auth.Identity{ID: "id-1", Role: user.RoleUser})
		w := doAuthed(t, r, http.MethodGet, "/profile", "")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		var resp struct {
			Data struct {
				ID        string    `json:"id"`
				Email     string    `json:"email"`
				Role      string    `json:"role"`
				CreatedAt time.Time `json:"created_at"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}

		if resp.Data.Email != "a@x.com" || resp.Data.Role != user.RoleUser {
			t.Errorf("got data %+v", resp.Data)
		}
		if !resp.Data.CreatedAt.Equal(created) {
			t.Errorf("got created_at %v, want %v", resp.Data.CreatedAt, created)
		}

		if jsonContains(w.Body.Bytes(), stored.PasswordHash) {
			t.Error("password hash leaked into response")
		}
	})

	t.Run("deleted_user_is_404", func(t *testing.T) {
		store := &fakeProfileStore{}

		r := setupProfileRouter(store, auth.Identity{ID: "gone", Role: user.RoleUser})
		w := doAuthed(t, r, http.MethodGet, "/profile", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	hash, err := security.HashPassword("old-pass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	current := user.User{
		ID:           "id-1",
		Name:         "Old Name",
		Email:        "old@x.com",
		PasswordHash: hash,
		Role:         user.RoleUser,
	}

	newStore := func() *fakeProfileStore {
		return &fakeProfileStore{
			getByIDFn: func(ctx context.Context, id string) (user.User, error) {
				return current, nil
			},
			updateFn: func(ctx context.Context, id, name, email, passwordHash string) (user.User, error) {
				return user.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash, Role: current.Role}, nil
			},
		}
	}

	identity := auth.Identity{ID: "id-1", Role: user.RoleUser}

	t.Run("name_only_keeps_email_and_hash", func(t *testing.T) {
		store := newStore()

		var gotEmail, gotHash string
		store.updateFn = func(ctx context.Context, id, name, email, passwordHash string) (user.User, error) {
			gotEmail, gotHash = email, passwordHash
			return user.User{ID: id, Name: name, Email: email}, nil
		}

		r := setupProfileRouter(store, identity)
		w := doAuthed(t, r, http.MethodPatch, "/profile", `{"name":"X"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		if gotEmail != current.Email {
			t.Errorf("email changed to %q, want %q kept", gotEmail, current.Email)
		}
		if gotHash != current.PasswordHash {
			t.Errorf("password hash changed, want old hash kept")
		}
	})

	t.Run("empty_strings_keep_stored_values", func(t *testing.T) {
		store := newStore()

		var gotName string
		store.updateFn = func(ctx context.Context, id, name, email, passwordHash string) (user.User, error) {
			gotName = name
			return user.User{ID: id, Name: name, Email: email}, nil
		}

		r := setupProfileRouter(store, identity)
		w := doAuthed(t, r, http.MethodPut, "/profile", `{"name":"","email":""}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}
		if gotName != current.Name {
			t.Errorf("empty name cleared the field, got %q", gotName)
		}
	})

	t.Run("new_password_is_rehashed", func(t *testing.T) {
		store := newStore()

		var gotHash string
		store.updateFn = func(ctx context.Context, id, name, email, passwordHash string) (user.User, error) {
			gotHash = passwordHash
			return user.User{ID: id, Name: name, Email: email}, nil
		}

		r := setupProfileRouter(store, identity)
		w := doAuthed(t, r, http.MethodPatch, "/profile", `{"password":"new-pass"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", w.Code)
		}

		if gotHash == current.PasswordHash {
			t.Error("hash unchanged after password update")
		}
		if gotHash == "new-pass" {
			t.Error("plaintext password reached the store")
		}
		if err := security.CheckPassword(gotHash, "new-pass"); err != nil {
			t.Errorf("stored hash does not verify the new password: %v", err)
		}
	})

	t.Run("email_conflict_read_check", func(t *testing.T) {
		store := newStore()
		store.takenFn = func(ctx context.Context, email, id string) (bool, error) {
			return true, nil
		}
		store.updateFn = func(ctx context.Context, id, name, email, passwordHash string) (user.User, error) {
			t.Error("update ran despite email conflict")
			return user.User{}, nil
		}

		r := setupProfileRouter(store, identity)
		w := doAuthed(t, r, http.MethodPatch, "/profile", `{"email":"taken@x.com"}`)

		if w.Code != http.StatusConflict {
			t.Fatalf("got status %d, want 409, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("email_conflict_at_write_time", func(t *testing.T) {
		// read check passes, constraint trips on write: the race case
		store := newStore()
		store.updateFn = func(ctx context.Context, id, name, email, passwordHash string) (user.User, error) {
			return user.User{}, user.ErrEmailTaken
		}

		r := setupProfileRouter(store, identity)
		w := doAuthed(t, r, http.MethodPatch, "/profile", `{"email":"raced@x.com"}`)

		if w.Code != http.StatusConflict {
			t.Fatalf("got status %d, want 409, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("unchanged_email_skips_uniqueness_check", func(t *testing.T) {
		store := newStore()
		store.takenFn = func(ctx context.Context, email, id string) (bool, error) {
			t.Error("uniqueness check ran for an unchanged email")
			return false, nil
		}

		r := setupProfileRouter(store, identity)
		w := doAuthed(t, r, http.MethodPatch, "/profile", `{"email":"old@x.com"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("store_failure_is_500", func(t *testing.T) {
		store := newStore()
		store.updateFn = func(ctx context.Context, id, name, email, passwordHash string) (user.User, error) {
			return user.User{}, errors.New("disk full")
		}

		r := setupProfileRouter(store, identity)
		w := doAuthed(t, r, http.MethodPatch, "/profile", `{"name":"X"}`)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("got status %d, want 500", w.Code)
		}
	})
}
