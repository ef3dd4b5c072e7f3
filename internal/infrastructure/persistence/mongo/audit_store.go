// Package mongo 审计日志的MongoDB存储
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// NewClient 连接MongoDB，URI为空时返回nil（审计关闭）
func NewClient(cfg *config.Config) (*mongo.Client, error) {
	if cfg.Mongo.URI == "" {
		logger.L().Warn("mongo uri not configured, audit log disabled")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("MongoDB连接失败: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB连接测试失败: %w", err)
	}

	logger.L().Info("mongo connected", zap.String("database", cfg.Mongo.Database))
	return client, nil
}

// auditDocument 审计文档，_id由MongoDB生成
type auditDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	history.AuditEntry `bson:",inline"`
}

// AuditStore 实现history.AuditStore
type AuditStore struct {
	coll *mongo.Collection
}

// NewAuditStore 创建审计存储，client为nil时返回nil
func NewAuditStore(client *mongo.Client, cfg *config.Config) *AuditStore {
	if client == nil {
		return nil
	}
	return &AuditStore{coll: client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.AuditColl)}
}

// EnsureIndexes 按用户和实体查询审计日志
func (s *AuditStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}}},
	})
	if err != nil {
		return apperrors.Wrap(err, "创建审计索引失败")
	}
	return nil
}

// Insert 写入一条审计文档，未启用审计时为空操作
func (s *AuditStore) Insert(ctx context.Context, entry *history.AuditEntry) error {
	if s == nil {
		return nil
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := s.coll.InsertOne(ctx, auditDocument{AuditEntry: *entry}); err != nil {
		return apperrors.Wrap(err, "写入审计日志失败")
	}
	return nil
}

// FindByEntity 查询某个实体的审计记录，新记录在前
func (s *AuditStore) FindByEntity(ctx context.Context, entity string, entityID uint, limit int64) ([]history.AuditEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := s.coll.Find(ctx, bson.M{"entity": entity, "entity_id": entityID}, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "查询审计日志失败")
	}
	defer cur.Close(ctx)

	var docs []auditDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "解析审计日志失败")
	}

	entries := make([]history.AuditEntry, len(docs))
	for i, d := range docs {
		entries[i] = d.AuditEntry
	}
	return entries, nil
}
