package model

import "time"

// Post 动态，评论内嵌且只追加
type Post struct {
	ID        string
	AuthorID  string
	PostText  string
	Comments  []*Comment
	CreatedAt time.Time
}

// Comment 内嵌评论
type Comment struct {
	ID          string
	CommentText string
	AuthorID    string
	CreatedAt   time.Time
}

// GraffitiPost 涂鸦：一个用户写在另一个用户主页上的留言
type GraffitiPost struct {
	ID              string
	PostingUserID   string
	ReceivingUserID string
	PostText        string
	CreatedAt       time.Time
}
