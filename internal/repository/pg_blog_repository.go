package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blogposts/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// blogDocument は blogs.doc (JSONB) に格納するドキュメント
type blogDocument struct {
	Title   string       `json:"title"`
	Author  model.Author `json:"author"`
	Content string       `json:"content"`
}

// PgBlogRepository は BlogRepository の PostgreSQL (JSONB) 実装
type PgBlogRepository struct {
	pool *pgxpool.Pool
}

// NewPgBlogRepository は PgBlogRepository を生成する
func NewPgBlogRepository(pool *pgxpool.Pool) *PgBlogRepository {
	return &PgBlogRepository{pool: pool}
}

// Ping は接続の生存確認を行う
func (r *PgBlogRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close は接続プールを閉じる
func (r *PgBlogRepository) Close(_ context.Context) error {
	r.pool.Close()
	return nil
}

// List は全記事をテーブルの自然順で返す
func (r *PgBlogRepository) List(ctx context.Context) ([]*model.BlogPost, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, doc FROM blogs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.BlogPost
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		post, err := decodeBlogDocument(id, raw)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// FindByID は ID で記事を取得する
func (r *PgBlogRepository) FindByID(ctx context.Context, id string) (*model.BlogPost, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM blogs WHERE id = $1::uuid`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeBlogDocument(id, raw)
}

// Create は記事を作成し、採番された ID を post に設定する
func (r *PgBlogRepository) Create(ctx context.Context, post *model.BlogPost) error {
	if err := post.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(blogDocument{Title: post.Title, Author: post.Author, Content: post.Content})
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO blogs (doc) VALUES ($1::jsonb) RETURNING id::text`,
		doc,
	).Scan(&post.ID)
}

// Update は patch に含まれるフィールドだけをドキュメントへマージする。
// 該当行が無い場合は何もしない。
func (r *PgBlogRepository) Update(ctx context.Context, id string, patch model.BlogPostPatch) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}
	set, err := json.Marshal(patchFields(patch))
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `UPDATE blogs SET doc = doc || $2::jsonb WHERE id = $1::uuid`, id, set)
	return err
}

// Delete は記事を削除する。該当行が無い場合は何もしない。
func (r *PgBlogRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1::uuid`, id)
	return err
}

func decodeBlogDocument(id string, raw []byte) (*model.BlogPost, error) {
	var doc blogDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode blog %s: %w", id, err)
	}
	return &model.BlogPost{ID: id, Title: doc.Title, Author: doc.Author, Content: doc.Content}, nil
}

// patchFields は patch のうち指定されたフィールドだけを持つマップを返す
func patchFields(patch model.BlogPostPatch) map[string]any {
	fields := make(map[string]any, 3)
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Author != nil {
		fields["author"] = *patch.Author
	}
	if patch.Content != nil {
		fields["content"] = *patch.Content
	}
	return fields
}
