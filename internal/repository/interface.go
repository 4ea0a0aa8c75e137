package repository

import (
	"context"

	"github.com/blogposts/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// BlogRepository はブログ記事永続化のインターフェース。
// 書き込み時に model の不変条件を検証し、違反は model.ErrInvalidBlogPost を返す。
type BlogRepository interface {
	List(ctx context.Context) ([]*model.BlogPost, error)
	FindByID(ctx context.Context, id string) (*model.BlogPost, error)
	Create(ctx context.Context, post *model.BlogPost) error
	Update(ctx context.Context, id string, patch model.BlogPostPatch) error
	Delete(ctx context.Context, id string) error
}

// Store はドキュメントストア接続そのもの。起動時に開き、終了時に閉じる。
type Store interface {
	BlogRepository
	DB
	Close(ctx context.Context) error
}
