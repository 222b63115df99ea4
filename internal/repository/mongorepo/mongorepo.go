// Package mongorepo 基于 MongoDB 的文档存储后端
// 引用集合的增删使用 $addToSet / $pull，组合更新在单次 FindOneAndUpdate 中完成
package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"social-system/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// New 基于给定数据库构建全部仓储
func New(db *mongo.Database) repository.Store {
	return repository.Store{
		Users:    &UserRepository{coll: db.Collection(usersCollection)},
		Posts:    &PostRepository{coll: db.Collection(postsCollection)},
		Graffiti: &GraffitiRepository{coll: db.Collection(graffitiCollection)},
		Threads:  &ThreadRepository{coll: db.Collection(threadsCollection)},
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
	}
}

// EnsureIndexes 创建运行所需的索引（邮箱唯一）
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}
	_, err = db.Collection(threadsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "chatters", Value: 1}},
		Options: options.Index().SetName("chatters"),
	})
	if err != nil {
		return fmt.Errorf("create messages.chatters index: %w", err)
	}
	return nil
}

// Collections 本后端使用的全部集合名
func Collections() []string {
	return []string{usersCollection, postsCollection, graffitiCollection, threadsCollection}
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
