package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"denti-directory/internal/domain/posts"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

const postsTable = "posts"

var postColumns = []any{
	"id", "title", "content", "excerpt", "cover_image_url",
	"author_uid", "author_email", "author_display_name",
	"created_at", "updated_at",
}

type postRow struct {
	ID                string    `db:"id"`
	Title             string    `db:"title"`
	Content           string    `db:"content"`
	Excerpt           string    `db:"excerpt"`
	CoverImageURL     string    `db:"cover_image_url"`
	AuthorUID         string    `db:"author_uid"`
	AuthorEmail       string    `db:"author_email"`
	AuthorDisplayName string    `db:"author_display_name"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r postRow) toDomain() posts.Post {
	return posts.Post{
		ID:            r.ID,
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		CoverImageURL: r.CoverImageURL,
		Author: posts.Author{
			UID:         r.AuthorUID,
			Email:       r.AuthorEmail,
			DisplayName: r.AuthorDisplayName,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type PostsRepo struct {
	db *sqlx.DB
}

func NewPostsRepo(db *sqlx.DB) *PostsRepo {
	return &PostsRepo{db: db}
}

var _ posts.Repository = (*PostsRepo)(nil)

func (r *PostsRepo) Create(ctx context.Context, p posts.Post) error {
	query, args, err := dialect.Insert(postsTable).Prepared(true).Rows(goqu.Record{
		"id":                  p.ID,
		"title":               p.Title,
		"content":             p.Content,
		"excerpt":             p.Excerpt,
		"cover_image_url":     p.CoverImageURL,
		"author_uid":          p.Author.UID,
		"author_email":        p.Author.Email,
		"author_display_name": p.Author.DisplayName,
		"created_at":          p.CreatedAt,
		"updated_at":          p.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert post: %w", err)
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *PostsRepo) Update(ctx context.Context, id string, patch posts.Patch, updatedAt time.Time) error {
	rec := goqu.Record{"updated_at": updatedAt}
	setIf(rec, "title", patch.Title)
	setIf(rec, "content", patch.Content)
	setIf(rec, "excerpt", patch.Excerpt)
	setIf(rec, "cover_image_url", patch.CoverImageURL)

	query, args, err := dialect.Update(postsTable).Prepared(true).
		Set(rec).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update post: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	query, args, err := dialect.From(postsTable).Prepared(true).
		Select(postColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return posts.Post{}, fmt.Errorf("build get post: %w", err)
	}

	var row postRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return posts.Post{}, posts.ErrNotFound
		}
		return posts.Post{}, err
	}
	return row.toDomain(), nil
}

func (r *PostsRepo) List(ctx context.Context) ([]posts.Post, error) {
	query, args, err := dialect.From(postsTable).Prepared(true).
		Select(postColumns...).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list posts: %w", err)
	}

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]posts.Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	query, args, err := dialect.Delete(postsTable).Prepared(true).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete post: %w", err)
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
