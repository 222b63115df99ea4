package model

import "time"

// User 用户
// 关系字段（Posts、Friends 等）保存引用ID，按插入顺序、无重复
// 对应的展开字段只有在查询要求展开时才会填充
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	PostIDs          []string
	GraffitiPostIDs  []string
	ThreadIDs        []string
	FriendIDs        []string
	PendingFriendIDs []string

	Posts          []*Post
	GraffitiPosts  []*GraffitiPost
	Threads        []*MessageThread
	Friends        []*User
	PendingFriends []*User
}

// HasFriend 判断 id 是否已在好友列表中
func (u *User) HasFriend(id string) bool {
	return containsID(u.FriendIDs, id)
}

// HasPendingFriend 判断 id 是否已在待确认好友列表中
func (u *User) HasPendingFriend(id string) bool {
	return containsID(u.PendingFriendIDs, id)
}

// UserUpdate 用户资料的部分更新
// 只有非 nil 字段会写入，PasswordHash 由服务层根据 Password 计算
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
}

// IsEmpty 是否没有任何需要更新的字段
func (u UserUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil && u.PasswordHash == nil
}

// Apply 将部分更新合并到用户上
func (u UserUpdate) Apply(user *User) {
	if u.FirstName != nil {
		user.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		user.LastName = *u.LastName
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.PasswordHash != nil {
		user.PasswordHash = *u.PasswordHash
	}
}

// AuthPayload 注册/登录结果
type AuthPayload struct {
	Token string
	User  *User
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
