package mongorepo

import (
	"context"
	"fmt"

	"social-system/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostRepository posts 集合
type PostRepository struct {
	coll *mongo.Collection
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	doc := postDoc{
		PostText:  post.PostText,
		Comments:  []commentDoc{},
		CreatedAt: now(),
	}
	if post.AuthorID != "" {
		author, err := parseID("user", post.AuthorID)
		if err != nil {
			return err
		}
		doc.Author = author
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID).Hex()
	post.CreatedAt = doc.CreatedAt
	post.Comments = []*model.Comment{}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := parseID("post", id)
	if err != nil {
		return nil, err
	}
	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, model.NotFound("post", id)
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toModel(), nil
}

func (r *PostRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*model.Post{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	byID := make(map[string]*model.Post, len(docs))
	for i := range docs {
		byID[docs[i].ID.Hex()] = docs[i].toModel()
	}
	out := make([]*model.Post, 0, len(docs))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PostRepository) AppendComment(ctx context.Context, postID string, comment *model.Comment) (*model.Post, error) {
	oid, err := parseID("post", postID)
	if err != nil {
		return nil, err
	}
	author, err := parseID("user", comment.AuthorID)
	if err != nil {
		return nil, err
	}
	c := commentDoc{
		ID:            primitive.NewObjectID(),
		CommentText:   comment.CommentText,
		CommentAuthor: author,
		CreatedAt:     now(),
	}
	var doc postDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": c}},
		returnAfter(),
	).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, model.NotFound("post", postID)
		}
		return nil, fmt.Errorf("append comment: %w", err)
	}
	comment.ID = c.ID.Hex()
	comment.CreatedAt = c.CreatedAt
	return doc.toModel(), nil
}

// GraffitiRepository graffitiposts 集合
type GraffitiRepository struct {
	coll *mongo.Collection
}

func (r *GraffitiRepository) Create(ctx context.Context, graffiti *model.GraffitiPost) error {
	poster, err := parseID("user", graffiti.PostingUserID)
	if err != nil {
		return err
	}
	receiver, err := parseID("user", graffiti.ReceivingUserID)
	if err != nil {
		return err
	}
	doc := graffitiDoc{
		PostingUser:   poster,
		ReceivingUser: receiver,
		PostText:      graffiti.PostText,
		CreatedAt:     now(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert graffiti: %w", err)
	}
	graffiti.ID = res.InsertedID.(primitive.ObjectID).Hex()
	graffiti.CreatedAt = doc.CreatedAt
	return nil
}

func (r *GraffitiRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.GraffitiPost, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*model.GraffitiPost{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find graffiti: %w", err)
	}
	var docs []graffitiDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode graffiti: %w", err)
	}
	byID := make(map[string]*model.GraffitiPost, len(docs))
	for i := range docs {
		byID[docs[i].ID.Hex()] = docs[i].toModel()
	}
	out := make([]*model.GraffitiPost, 0, len(docs))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// ThreadRepository messages 集合（私信会话）
type ThreadRepository struct {
	coll *mongo.Collection
}

func (r *ThreadRepository) Create(ctx context.Context, thread *model.MessageThread) error {
	chatters := objectIDs(thread.Chatters)
	if len(chatters) != len(thread.Chatters) {
		return model.Validation("invalid chatter id")
	}
	doc := threadDoc{
		Chatters:  chatters,
		DM:        []dmDoc{},
		CreatedAt: now(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert message thread: %w", err)
	}
	thread.ID = res.InsertedID.(primitive.ObjectID).Hex()
	thread.CreatedAt = doc.CreatedAt
	thread.Messages = []*model.DirectMessage{}
	return nil
}

func (r *ThreadRepository) GetByID(ctx context.Context, id string) (*model.MessageThread, error) {
	oid, err := parseID("message thread", id)
	if err != nil {
		return nil, err
	}
	var doc threadDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, model.NotFound("message thread", id)
		}
		return nil, fmt.Errorf("find message thread: %w", err)
	}
	return doc.toModel(), nil
}

func (r *ThreadRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.MessageThread, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*model.MessageThread{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find message threads: %w", err)
	}
	var docs []threadDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode message threads: %w", err)
	}
	byID := make(map[string]*model.MessageThread, len(docs))
	for i := range docs {
		byID[docs[i].ID.Hex()] = docs[i].toModel()
	}
	out := make([]*model.MessageThread, 0, len(docs))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *ThreadRepository) AppendMessage(ctx context.Context, threadID string, msg *model.DirectMessage) (*model.MessageThread, error) {
	oid, err := parseID("message thread", threadID)
	if err != nil {
		return nil, err
	}
	author, err := parseID("user", msg.AuthorID)
	if err != nil {
		return nil, err
	}
	m := dmDoc{
		ID:             primitive.NewObjectID(),
		MessageContent: msg.MessageContent,
		MessageAuthor:  author,
		CreatedAt:      now(),
	}
	var doc threadDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "chatters": author},
		bson.M{"$push": bson.M{"dm": m}},
		returnAfter(),
	).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, model.NotFound("message thread", threadID)
		}
		return nil, fmt.Errorf("append message: %w", err)
	}
	msg.ID = m.ID.Hex()
	msg.CreatedAt = m.CreatedAt
	return doc.toModel(), nil
}
