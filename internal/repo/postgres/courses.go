package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/coursehub/internal/domain/course"
	"github.com/opencampus/coursehub/internal/observability"
)

type CoursesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCoursesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CoursesRepo {
	return &CoursesRepo{pool: pool, prom: prom}
}

func (r *CoursesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *CoursesRepo) Create(ctx context.Context, req course.CreateCourseRequest) (course.Course, error) {
	now := time.Now().UTC()

	c := course.Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.observe("courses.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO courses (id, title, description, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5)`,
			c.ID, c.Title, c.Description, c.CreatedAt, c.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (r *CoursesRepo) List(ctx context.Context) ([]course.Course, error) {
	items := []course.Course{}

	err := r.observe("courses.list", func() error {
		rows, e := r.pool.Query(ctx,
			`SELECT id, title, description, created_at, updated_at
			 FROM courses
			 ORDER BY created_at DESC`,
		)
		if e != nil {
			return e
		}
		defer rows.Close()

		for rows.Next() {
			var c course.Course
			if e := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt); e != nil {
				return e
			}
			items = append(items, c)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CoursesRepo) GetByID(ctx context.Context, id string) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, description, created_at, updated_at
			 FROM courses
			 WHERE id = $1`,
			id,
		).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, err
	}
	return c, nil
}

func (r *CoursesRepo) Update(ctx context.Context, id string, req course.UpdateCourseRequest) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE courses
			 SET title = $1, description = $2, updated_at = $3
			 WHERE id = $4
			 RETURNING id, title, description, created_at, updated_at`,
			req.Title, req.Description, time.Now().UTC(), id,
		).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, err
	}
	return c, nil
}

func (r *CoursesRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("courses.delete", func() error {
		t, e := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
		tag = t
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return course.ErrNotFound
	}
	return nil
}
