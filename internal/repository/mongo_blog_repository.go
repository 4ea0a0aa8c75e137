package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/blogposts/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const blogCollection = "blogs"

// mongoBlog は blogs コレクションのドキュメント
type mongoBlog struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Title   string             `bson:"title"`
	Author  model.Author       `bson:"author"`
	Content string             `bson:"content"`
}

func (d *mongoBlog) toModel() *model.BlogPost {
	return &model.BlogPost{
		ID:      d.ID.Hex(),
		Title:   d.Title,
		Author:  d.Author,
		Content: d.Content,
	}
}

// NewMongoClient は MongoDB に接続し、プライマリへの疎通を確認する
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// MongoBlogRepository は BlogRepository の MongoDB 実装
type MongoBlogRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoBlogRepository は MongoBlogRepository を生成する
func NewMongoBlogRepository(client *mongo.Client, database string) *MongoBlogRepository {
	return &MongoBlogRepository{
		client: client,
		coll:   client.Database(database).Collection(blogCollection),
	}
}

// Ping は接続の生存確認を行う
func (r *MongoBlogRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Close はクライアントを切断する
func (r *MongoBlogRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// List は全記事をコレクションの自然順で返す
func (r *MongoBlogRepository) List(ctx context.Context) ([]*model.BlogPost, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []mongoBlog
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]*model.BlogPost, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

// FindByID は ID で記事を取得する
func (r *MongoBlogRepository) FindByID(ctx context.Context, id string) (*model.BlogPost, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc mongoBlog
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// Create は記事を作成し、採番された ID を post に設定する
func (r *MongoBlogRepository) Create(ctx context.Context, post *model.BlogPost) error {
	if err := post.Validate(); err != nil {
		return err
	}
	res, err := r.coll.InsertOne(ctx, mongoBlog{Title: post.Title, Author: post.Author, Content: post.Content})
	if err != nil {
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	post.ID = oid.Hex()
	return nil
}

// Update は patch に含まれるフィールドを $set する。該当ドキュメントが無い場合は何もしない。
func (r *MongoBlogRepository) Update(ctx context.Context, id string, patch model.BlogPostPatch) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}
	set := bson.M{}
	for k, v := range patchFields(patch) {
		set[k] = v
	}
	_, err = r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	return err
}

// Delete は記事を削除する。該当ドキュメントが無い場合は何もしない。
func (r *MongoBlogRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
