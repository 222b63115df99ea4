package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"social-system/internal/model"
	"social-system/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository users 集合
type UserRepository struct {
	coll *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ts := now()
	doc := userDoc{
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		Password:       user.PasswordHash,
		Posts:          []primitive.ObjectID{},
		GraffitiPosts:  []primitive.ObjectID{},
		Messages:       []primitive.ObjectID{},
		Friends:        []primitive.ObjectID{},
		PendingFriends: []primitive.ObjectID{},
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	user.ID = oid.Hex()
	user.CreatedAt = ts
	user.UpdatedAt = ts
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid}, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*model.User{}, nil
	}
	users, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]*model.User, 0, len(users))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	oid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": now()}
	if upd.FirstName != nil {
		set["firstName"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["lastName"] = *upd.LastName
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
	}
	u, err := r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, id)
	if mongo.IsDuplicateKeyError(err) {
		return nil, model.ErrEmailTaken
	}
	return u, err
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, model.NotFound("user", id)
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *UserRepository) AddToSet(ctx context.Context, userID string, field repository.RefField, ref string) (*model.User, error) {
	if !field.Valid() {
		return nil, model.Validation("unknown reference field %q", field)
	}
	oid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	refID, err := parseID(string(field), ref)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$addToSet": bson.M{string(field): refID}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update, userID)
}

func (r *UserRepository) SendFriendRequest(ctx context.Context, receiverID, senderID string) (*model.User, error) {
	oid, err := parseID("user", receiverID)
	if err != nil {
		return nil, err
	}
	sender, err := parseID("user", senderID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid, "friends": bson.M{"$ne": sender}}
	update := bson.M{"$addToSet": bson.M{string(repository.RefPendingFriends): sender}}
	u, err := r.findOneAndUpdate(ctx, filter, update, receiverID)
	if err == nil {
		return u, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	// 过滤条件未命中：要么用户不存在，要么已经是好友
	return r.GetByID(ctx, receiverID)
}

func (r *UserRepository) AcceptFriend(ctx context.Context, userID, requesterID string) (*model.User, error) {
	oid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	requester, err := parseID("friend request", requesterID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid, "pendingFriends": requester}
	update := bson.M{
		"$addToSet": bson.M{"friends": requester},
		"$pull":     bson.M{"pendingFriends": requester},
	}
	u, err := r.findOneAndUpdate(ctx, filter, update, userID)
	if err == nil {
		return u, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	current, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.HasFriend(requesterID) {
		return current, nil
	}
	return nil, model.NotFound("friend request", requesterID)
}

func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) (*model.User, error) {
	oid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	friend, err := parseID("user", friendID)
	if err != nil {
		return nil, err
	}
	update := bson.M{
		"$addToSet": bson.M{"friends": friend},
		"$pull":     bson.M{"pendingFriends": friend},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update, userID)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, key string) (*model.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, model.NotFound("user", key)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]*model.User, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]*model.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, key string) (*model.User, error) {
	var doc userDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, model.NotFound("user", key)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toModel(), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
