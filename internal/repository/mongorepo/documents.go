package mongorepo

import (
	"time"

	"social-system/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 集合名沿用文档模型的复数形式
const (
	usersCollection    = "users"
	postsCollection    = "posts"
	graffitiCollection = "graffitiposts"
	threadsCollection  = "messages"
)

type userDoc struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	FirstName      string               `bson:"firstName"`
	LastName       string               `bson:"lastName"`
	Email          string               `bson:"email"`
	Password       string               `bson:"password"`
	Posts          []primitive.ObjectID `bson:"posts"`
	GraffitiPosts  []primitive.ObjectID `bson:"graffitiPosts"`
	Messages       []primitive.ObjectID `bson:"messages"`
	Friends        []primitive.ObjectID `bson:"friends"`
	PendingFriends []primitive.ObjectID `bson:"pendingFriends"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:               d.ID.Hex(),
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Email:            d.Email,
		PasswordHash:     d.Password,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		PostIDs:          hexes(d.Posts),
		GraffitiPostIDs:  hexes(d.GraffitiPosts),
		ThreadIDs:        hexes(d.Messages),
		FriendIDs:        hexes(d.Friends),
		PendingFriendIDs: hexes(d.PendingFriends),
	}
}

type commentDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	CommentText   string             `bson:"commentText"`
	CommentAuthor primitive.ObjectID `bson:"commentAuthor"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Author    primitive.ObjectID `bson:"author"`
	PostText  string             `bson:"postText"`
	Comments  []commentDoc       `bson:"comments"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *postDoc) toModel() *model.Post {
	p := &model.Post{
		ID:        d.ID.Hex(),
		AuthorID:  hexOrEmpty(d.Author),
		PostText:  d.PostText,
		Comments:  make([]*model.Comment, 0, len(d.Comments)),
		CreatedAt: d.CreatedAt,
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, &model.Comment{
			ID:          c.ID.Hex(),
			CommentText: c.CommentText,
			AuthorID:    hexOrEmpty(c.CommentAuthor),
			CreatedAt:   c.CreatedAt,
		})
	}
	return p
}

type graffitiDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	PostingUser   primitive.ObjectID `bson:"postingUser"`
	ReceivingUser primitive.ObjectID `bson:"receivingUser"`
	PostText      string             `bson:"postText"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d *graffitiDoc) toModel() *model.GraffitiPost {
	return &model.GraffitiPost{
		ID:              d.ID.Hex(),
		PostingUserID:   hexOrEmpty(d.PostingUser),
		ReceivingUserID: hexOrEmpty(d.ReceivingUser),
		PostText:        d.PostText,
		CreatedAt:       d.CreatedAt,
	}
}

type dmDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	MessageContent string             `bson:"messageContent"`
	MessageAuthor  primitive.ObjectID `bson:"messageAuthor"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

type threadDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Chatters  []primitive.ObjectID `bson:"chatters"`
	DM        []dmDoc              `bson:"dm"`
	CreatedAt time.Time            `bson:"createdAt"`
}

func (d *threadDoc) toModel() *model.MessageThread {
	t := &model.MessageThread{
		ID:        d.ID.Hex(),
		Chatters:  hexes(d.Chatters),
		Messages:  make([]*model.DirectMessage, 0, len(d.DM)),
		CreatedAt: d.CreatedAt,
	}
	for _, m := range d.DM {
		t.Messages = append(t.Messages, &model.DirectMessage{
			ID:             m.ID.Hex(),
			MessageContent: m.MessageContent,
			AuthorID:       hexOrEmpty(m.MessageAuthor),
			CreatedAt:      m.CreatedAt,
		})
	}
	return t
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

// objectIDs 转换一组ID，非法ID直接丢弃
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := canonicalID(id); ok {
			out = append(out, oid)
		}
	}
	return out
}

// parseID 非法ID按记录不存在处理
// 大写十六进制也视为非法，保证引用集合里只有 Hex() 的小写形式
func parseID(entity, id string) (primitive.ObjectID, error) {
	oid, ok := canonicalID(id)
	if !ok {
		return primitive.NilObjectID, model.NotFound(entity, id)
	}
	return oid, nil
}

func canonicalID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || oid.Hex() != id {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// now 截断到毫秒，与 BSON 日期精度一致
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
