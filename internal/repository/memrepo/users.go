package memrepo

import (
	"context"

	"social-system/internal/model"
	"social-system/internal/repository"
)

type userRepo struct {
	db *memDB
}

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.emailTakenLocked(user.Email, "") {
		return model.ErrEmailTaken
	}
	now := r.db.now()
	user.ID = newID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.db.users[user.ID] = copyUser(user)
	r.db.userOrder = append(r.db.userOrder, user.ID)
	return nil
}

func (r *userRepo) List(_ context.Context) ([]*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*model.User, 0, len(r.db.users))
	for _, id := range r.db.userOrder {
		if u, ok := r.db.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, model.NotFound("user", id)
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, id := range r.db.userOrder {
		if u, ok := r.db.users[id]; ok && u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, model.NotFound("user", email)
}

func (r *userRepo) FindByIDs(_ context.Context, ids []string) ([]*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.db.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (r *userRepo) Update(_ context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, model.NotFound("user", id)
	}
	if upd.Email != nil && r.emailTakenLocked(*upd.Email, id) {
		return nil, model.ErrEmailTaken
	}
	upd.Apply(u)
	u.UpdatedAt = r.db.now()
	return copyUser(u), nil
}

func (r *userRepo) Delete(_ context.Context, id string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, model.NotFound("user", id)
	}
	delete(r.db.users, id)
	r.db.userOrder = pull(r.db.userOrder, id)
	return copyUser(u), nil
}

func (r *userRepo) AddToSet(_ context.Context, userID string, field repository.RefField, ref string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return nil, model.NotFound("user", userID)
	}
	set := refSlice(u, field)
	if set == nil {
		return nil, model.Validation("unknown reference field %q", field)
	}
	*set = addToSet(*set, ref)
	return copyUser(u), nil
}

func (r *userRepo) SendFriendRequest(_ context.Context, receiverID, senderID string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[receiverID]
	if !ok {
		return nil, model.NotFound("user", receiverID)
	}
	if !u.HasFriend(senderID) {
		u.PendingFriendIDs = addToSet(u.PendingFriendIDs, senderID)
	}
	return copyUser(u), nil
}

func (r *userRepo) AcceptFriend(_ context.Context, userID, requesterID string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return nil, model.NotFound("user", userID)
	}
	if !u.HasPendingFriend(requesterID) {
		if u.HasFriend(requesterID) {
			return copyUser(u), nil
		}
		return nil, model.NotFound("friend request", requesterID)
	}
	u.FriendIDs = addToSet(u.FriendIDs, requesterID)
	u.PendingFriendIDs = pull(u.PendingFriendIDs, requesterID)
	return copyUser(u), nil
}

func (r *userRepo) AddFriend(_ context.Context, userID, friendID string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return nil, model.NotFound("user", userID)
	}
	u.FriendIDs = addToSet(u.FriendIDs, friendID)
	u.PendingFriendIDs = pull(u.PendingFriendIDs, friendID)
	return copyUser(u), nil
}

func (r *userRepo) emailTakenLocked(email, exceptID string) bool {
	for id, u := range r.db.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
