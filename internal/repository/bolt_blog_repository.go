package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blogposts/backend/internal/model"
	"github.com/boltdb/bolt"
	"github.com/google/uuid"
)

var blogBucket = []byte("blogs")

// BoltBlogRepository は BlogRepository の BoltDB 実装。
// キーは UUIDv7 のため、List は作成順になる。
type BoltBlogRepository struct {
	db *bolt.DB
}

// NewBoltBlogRepository は blogs バケットを用意して BoltBlogRepository を生成する
func NewBoltBlogRepository(db *bolt.DB) (*BoltBlogRepository, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(blogBucket); err != nil {
			return fmt.Errorf("could not ensure bucket %q exists: %w", blogBucket, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &BoltBlogRepository{db: db}, nil
}

// Ping はデータベースが開いているかを確認する
func (r *BoltBlogRepository) Ping(_ context.Context) error {
	return r.db.View(func(*bolt.Tx) error { return nil })
}

// Close はデータベースファイルを閉じる
func (r *BoltBlogRepository) Close(_ context.Context) error {
	return r.db.Close()
}

// List は全記事をキー順で返す
func (r *BoltBlogRepository) List(_ context.Context) ([]*model.BlogPost, error) {
	var posts []*model.BlogPost
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(blogBucket).ForEach(func(k, v []byte) error {
			post, err := decodeBlogDocument(string(k), v)
			if err != nil {
				return err
			}
			posts = append(posts, post)
			return nil
		})
	})
	return posts, err
}

// FindByID は ID で記事を取得する
func (r *BoltBlogRepository) FindByID(_ context.Context, id string) (*model.BlogPost, error) {
	key, err := boltKey(id)
	if err != nil {
		return nil, err
	}
	var post *model.BlogPost
	err = r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(blogBucket).Get(key)
		if v == nil {
			return ErrNotFound
		}
		post, err = decodeBlogDocument(string(key), v)
		return err
	})
	return post, err
}

// Create は記事を作成し、採番された ID を post に設定する
func (r *BoltBlogRepository) Create(_ context.Context, post *model.BlogPost) error {
	if err := post.Validate(); err != nil {
		return err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	doc, err := json.Marshal(blogDocument{Title: post.Title, Author: post.Author, Content: post.Content})
	if err != nil {
		return err
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(blogBucket).Put([]byte(id.String()), doc)
	})
	if err != nil {
		return err
	}
	post.ID = id.String()
	return nil
}

// Update は patch を既存ドキュメントに適用して書き戻す。該当キーが無い場合は何もしない。
func (r *BoltBlogRepository) Update(_ context.Context, id string, patch model.BlogPostPatch) error {
	key, err := boltKey(id)
	if err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(blogBucket)
		v := b.Get(key)
		if v == nil {
			return nil
		}
		post, err := decodeBlogDocument(string(key), v)
		if err != nil {
			return err
		}
		post.Apply(patch)
		doc, err := json.Marshal(blogDocument{Title: post.Title, Author: post.Author, Content: post.Content})
		if err != nil {
			return err
		}
		return b.Put(key, doc)
	})
}

// Delete は記事を削除する。該当キーが無い場合は何もしない。
func (r *BoltBlogRepository) Delete(_ context.Context, id string) error {
	key, err := boltKey(id)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(blogBucket).Delete(key)
	})
}

func boltKey(id string) ([]byte, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return []byte(parsed.String()), nil
}
