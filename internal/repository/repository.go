package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ストアドライバ名
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// DefaultBoltTimeout は bolt ファイルロック取得の待ち時間上限
const DefaultBoltTimeout = time.Second

// Options は Open に渡すストア接続設定
type Options struct {
	Driver        string
	URL           string
	MongoDatabase string
	BoltPath      string
	// BoltTimeout は別プロセスがロックを握っている場合に待つ時間。0 なら DefaultBoltTimeout
	BoltTimeout   time.Duration
	// MigrateOnOpen が true の場合、postgres ドライバは接続直後にマイグレーションを適用する
	MigrateOnOpen bool
}

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Open はドライバに応じたストアを開く。接続確認まで行い、失敗時は何も残さない。
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMongo, "":
		client, err := NewMongoClient(ctx, opts.URL)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return NewMongoBlogRepository(client, opts.MongoDatabase), nil
	case DriverPostgres:
		pool, err := NewPool(ctx, opts.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if opts.MigrateOnOpen {
			if err := Migrate(ctx, pool, MigrateUp); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return NewPgBlogRepository(pool), nil
	case DriverBolt:
		timeout := opts.BoltTimeout
		if timeout <= 0 {
			timeout = DefaultBoltTimeout
		}
		db, err := bolt.Open(opts.BoltPath, 0o600, &bolt.Options{Timeout: timeout})
		if err != nil {
			return nil, fmt.Errorf("open bolt %q: %w", opts.BoltPath, err)
		}
		repo, err := NewBoltBlogRepository(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", opts.Driver)
	}
}
