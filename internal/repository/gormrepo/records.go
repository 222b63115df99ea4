package gormrepo

import (
	"strconv"
	"time"

	"social-system/internal/model"
)

// userRecord 用户表
type userRecord struct {
	ID           uint      `gorm:"primaryKey"`
	FirstName    string    `gorm:"type:varchar(64);comment:名"`
	LastName     string    `gorm:"type:varchar(64);comment:姓"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null;comment:邮箱"`
	PasswordHash string    `gorm:"type:varchar(255);not null;comment:密码哈希"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (userRecord) TableName() string { return "user" }

// userRefRecord 用户引用集合，kind 对应 repository.RefField
// (user_id, kind, ref_id) 唯一，按 id 保持插入顺序
type userRefRecord struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uk_user_ref,priority:1;comment:用户ID"`
	Kind      string    `gorm:"type:varchar(32);not null;uniqueIndex:uk_user_ref,priority:2;comment:集合类型"`
	RefID     string    `gorm:"type:varchar(64);not null;uniqueIndex:uk_user_ref,priority:3;comment:引用ID"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (userRefRecord) TableName() string { return "user_ref" }

// postRecord 动态表
type postRecord struct {
	ID        uint            `gorm:"primaryKey"`
	AuthorID  uint            `gorm:"index;comment:作者ID"`
	PostText  string          `gorm:"type:text;not null;comment:动态内容"`
	Comments  []commentRecord `gorm:"foreignKey:PostID"`
	CreatedAt time.Time       `gorm:"comment:创建时间"`
}

func (postRecord) TableName() string { return "post" }

// commentRecord 评论表
type commentRecord struct {
	ID          uint      `gorm:"primaryKey"`
	PostID      uint      `gorm:"not null;index;comment:动态ID"`
	CommentText string    `gorm:"type:text;not null;comment:评论内容"`
	AuthorID    uint      `gorm:"not null;comment:评论者ID"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

func (commentRecord) TableName() string { return "comment" }

// graffitiRecord 涂鸦表
type graffitiRecord struct {
	ID              uint      `gorm:"primaryKey"`
	PostingUserID   uint      `gorm:"not null;index;comment:发布者ID"`
	ReceivingUserID uint      `gorm:"not null;index;comment:接收者ID"`
	PostText        string    `gorm:"type:text;not null;comment:涂鸦内容"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
}

func (graffitiRecord) TableName() string { return "graffiti_post" }

// threadRecord 私信会话表
type threadRecord struct {
	ID        uint                  `gorm:"primaryKey"`
	Chatters  []threadChatterRecord `gorm:"foreignKey:ThreadID"`
	Messages  []directMessageRecord `gorm:"foreignKey:ThreadID"`
	CreatedAt time.Time             `gorm:"comment:创建时间"`
}

func (threadRecord) TableName() string { return "message_thread" }

// threadChatterRecord 会话参与者，创建后不再变化
type threadChatterRecord struct {
	ID       uint `gorm:"primaryKey"`
	ThreadID uint `gorm:"not null;uniqueIndex:uk_thread_chatter,priority:1;comment:会话ID"`
	UserID   uint `gorm:"not null;uniqueIndex:uk_thread_chatter,priority:2;index;comment:用户ID"`
}

func (threadChatterRecord) TableName() string { return "thread_chatter" }

// directMessageRecord 私信表
type directMessageRecord struct {
	ID             uint      `gorm:"primaryKey"`
	ThreadID       uint      `gorm:"not null;index;comment:会话ID"`
	MessageContent string    `gorm:"type:text;not null;comment:消息内容"`
	AuthorID       uint      `gorm:"not null;comment:发送者ID"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
}

func (directMessageRecord) TableName() string { return "direct_message" }

// Models 需要自动迁移的全部表
func Models() []interface{} {
	return []interface{}{
		&userRecord{},
		&userRefRecord{},
		&postRecord{},
		&commentRecord{},
		&graffitiRecord{},
		&threadRecord{},
		&threadChatterRecord{},
		&directMessageRecord{},
	}
}

// Tables 全部表名，子表在前
func Tables() []string {
	return []string{
		"direct_message",
		"thread_chatter",
		"message_thread",
		"graffiti_post",
		"comment",
		"post",
		"user_ref",
		"user",
	}
}

func (r *userRecord) toModel(refs []userRefRecord) *model.User {
	u := &model.User{
		ID:               formatID(r.ID),
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		PostIDs:          []string{},
		GraffitiPostIDs:  []string{},
		ThreadIDs:        []string{},
		FriendIDs:        []string{},
		PendingFriendIDs: []string{},
	}
	for _, ref := range refs {
		switch ref.Kind {
		case "posts":
			u.PostIDs = append(u.PostIDs, ref.RefID)
		case "graffitiPosts":
			u.GraffitiPostIDs = append(u.GraffitiPostIDs, ref.RefID)
		case "messages":
			u.ThreadIDs = append(u.ThreadIDs, ref.RefID)
		case "friends":
			u.FriendIDs = append(u.FriendIDs, ref.RefID)
		case "pendingFriends":
			u.PendingFriendIDs = append(u.PendingFriendIDs, ref.RefID)
		}
	}
	return u
}

func (r *postRecord) toModel() *model.Post {
	p := &model.Post{
		ID:        formatID(r.ID),
		AuthorID:  formatOptionalID(r.AuthorID),
		PostText:  r.PostText,
		Comments:  make([]*model.Comment, 0, len(r.Comments)),
		CreatedAt: r.CreatedAt,
	}
	for _, c := range r.Comments {
		p.Comments = append(p.Comments, &model.Comment{
			ID:          formatID(c.ID),
			CommentText: c.CommentText,
			AuthorID:    formatID(c.AuthorID),
			CreatedAt:   c.CreatedAt,
		})
	}
	return p
}

func (r *graffitiRecord) toModel() *model.GraffitiPost {
	return &model.GraffitiPost{
		ID:              formatID(r.ID),
		PostingUserID:   formatID(r.PostingUserID),
		ReceivingUserID: formatID(r.ReceivingUserID),
		PostText:        r.PostText,
		CreatedAt:       r.CreatedAt,
	}
}

func (r *threadRecord) toModel() *model.MessageThread {
	t := &model.MessageThread{
		ID:        formatID(r.ID),
		Chatters:  make([]string, 0, len(r.Chatters)),
		Messages:  make([]*model.DirectMessage, 0, len(r.Messages)),
		CreatedAt: r.CreatedAt,
	}
	for _, c := range r.Chatters {
		t.Chatters = append(t.Chatters, formatID(c.UserID))
	}
	for _, m := range r.Messages {
		t.Messages = append(t.Messages, &model.DirectMessage{
			ID:             formatID(m.ID),
			MessageContent: m.MessageContent,
			AuthorID:       formatID(m.AuthorID),
			CreatedAt:      m.CreatedAt,
		})
	}
	return t
}

// parseID 只接受规范的十进制ID，"07"、"+7" 这类写法与非数字、零值一样按记录不存在处理
// 这样同一条记录在引用集合和批量查询里只有一种字符串形式
func parseID(entity, id string) (uint, error) {
	n, ok := canonicalID(id)
	if !ok {
		return 0, model.NotFound(entity, id)
	}
	return n, nil
}

// parseIDs 转换一组ID，非法ID直接丢弃
func parseIDs(ids []string) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if n, ok := canonicalID(id); ok {
			out = append(out, n)
		}
	}
	return out
}

func canonicalID(id string) (uint, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 || strconv.FormatUint(n, 10) != id {
		return 0, false
	}
	return uint(n), true
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func formatOptionalID(id uint) string {
	if id == 0 {
		return ""
	}
	return formatID(id)
}
