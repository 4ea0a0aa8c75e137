package service

import (
	"context"
	"fmt"

	"github.com/blogposts/backend/internal/model"
	"github.com/blogposts/backend/internal/repository"
)

// BlogService はブログ記事に関するビジネスロジックのインターフェース。
// 各操作はストアを一度だけ呼び出す。
type BlogService interface {
	List(ctx context.Context) ([]*model.BlogPost, error)
	Get(ctx context.Context, id string) (*model.BlogPost, error)
	Create(ctx context.Context, post *model.BlogPost) (*model.BlogPost, error)
	Update(ctx context.Context, id string, patch model.BlogPostPatch) error
	Delete(ctx context.Context, id string) error
}

// BlogServiceImpl は BlogService の実装
type BlogServiceImpl struct {
	repo repository.BlogRepository
}

// NewBlogService は BlogServiceImpl を生成する
func NewBlogService(repo repository.BlogRepository) BlogService {
	return &BlogServiceImpl{repo: repo}
}

// List は全記事を返す
func (s *BlogServiceImpl) List(ctx context.Context) ([]*model.BlogPost, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return posts, nil
}

// Get は ID で記事を返す
func (s *BlogServiceImpl) Get(ctx context.Context, id string) (*model.BlogPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get blog %s: %w", id, err)
	}
	return post, nil
}

// Create は記事を作成し、ID が採番された記事を返す
func (s *BlogServiceImpl) Create(ctx context.Context, post *model.BlogPost) (*model.BlogPost, error) {
	created := &model.BlogPost{
		Title:   post.Title,
		Author:  post.Author,
		Content: post.Content,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return created, nil
}

// Update は patch に含まれるフィールドだけを更新する
func (s *BlogServiceImpl) Update(ctx context.Context, id string, patch model.BlogPostPatch) error {
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update blog %s: %w", id, err)
	}
	return nil
}

// Delete は記事を削除する
func (s *BlogServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog %s: %w", id, err)
	}
	return nil
}
