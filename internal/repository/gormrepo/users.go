package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"social-system/internal/model"
	"social-system/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository user / user_ref 表
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	rec := userRecord{
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = formatID(rec.ID)
	user.CreatedAt = rec.CreatedAt
	user.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return r.withRefs(r.db.WithContext(ctx), recs)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	return r.load(r.db.WithContext(ctx), uid, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	db := r.db.WithContext(ctx)
	var rec userRecord
	if err := db.Where("email = ?", email).First(&rec).Error; err != nil {
		return nil, notFoundOr(err, "user", email, "find user")
	}
	users, err := r.withRefs(db, []userRecord{rec})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	uids := parseIDs(ids)
	if len(uids) == 0 {
		return []*model.User{}, nil
	}
	db := r.db.WithContext(ctx)
	var recs []userRecord
	if err := db.Where("id IN ?", uids).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	users, err := r.withRefs(db, recs)
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
	uid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	columns := map[string]interface{}{}
	if upd.FirstName != nil {
		columns["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		columns["last_name"] = *upd.LastName
	}
	if upd.Email != nil {
		columns["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		columns["password_hash"] = *upd.PasswordHash
	}

	var out *model.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.lockUser(tx, uid, id); err != nil {
			return err
		}
		if len(columns) > 0 {
			if err := tx.Model(&userRecord{ID: uid}).Updates(columns).Error; err != nil {
				if isDuplicate(err) {
					return model.ErrEmailTaken
				}
				return fmt.Errorf("update user: %w", err)
			}
		}
		out, err = r.load(tx, uid, id)
		return err
	})
	return out, err
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*model.User, error) {
	uid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	var out *model.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.lockUser(tx, uid, id); err != nil {
			return err
		}
		if out, err = r.load(tx, uid, id); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", uid).Delete(&userRefRecord{}).Error; err != nil {
			return fmt.Errorf("delete user refs: %w", err)
		}
		if err := tx.Delete(&userRecord{}, uid).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) AddToSet(ctx context.Context, userID string, field repository.RefField, ref string) (*model.User, error) {
	if !field.Valid() {
		return nil, model.Validation("unknown reference field %q", field)
	}
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	var out *model.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.lockUser(tx, uid, userID); err != nil {
			return err
		}
		if err := addRef(tx, uid, field, ref); err != nil {
			return err
		}
		out, err = r.load(tx, uid, userID)
		return err
	})
	return out, err
}

func (r *UserRepository) SendFriendRequest(ctx context.Context, receiverID, senderID string) (*model.User, error) {
	uid, err := parseID("user", receiverID)
	if err != nil {
		return nil, err
	}
	var out *model.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.lockUser(tx, uid, receiverID); err != nil {
			return err
		}
		current, err := r.load(tx, uid, receiverID)
		if err != nil {
			return err
		}
		if current.HasFriend(senderID) {
			out = current
			return nil
		}
		if err := addRef(tx, uid, repository.RefPendingFriends, senderID); err != nil {
			return err
		}
		out, err = r.load(tx, uid, receiverID)
		return err
	})
	return out, err
}

func (r *UserRepository) AcceptFriend(ctx context.Context, userID, requesterID string) (*model.User, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	var out *model.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.lockUser(tx, uid, userID); err != nil {
			return err
		}
		current, err := r.load(tx, uid, userID)
		if err != nil {
			return err
		}
		if !current.HasPendingFriend(requesterID) {
			if current.HasFriend(requesterID) {
				out = current
				return nil
			}
			return model.NotFound("friend request", requesterID)
		}
		if err := moveToFriends(tx, uid, requesterID); err != nil {
			return err
		}
		out, err = r.load(tx, uid, userID)
		return err
	})
	return out, err
}

func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) (*model.User, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	var out *model.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.lockUser(tx, uid, userID); err != nil {
			return err
		}
		if err := moveToFriends(tx, uid, friendID); err != nil {
			return err
		}
		out, err = r.load(tx, uid, userID)
		return err
	})
	return out, err
}

// lockUser 在事务内对用户行加写锁
func (r *UserRepository) lockUser(tx *gorm.DB, uid uint, id string) (*userRecord, error) {
	var rec userRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, uid).Error
	if err != nil {
		return nil, notFoundOr(err, "user", id, "lock user")
	}
	return &rec, nil
}

func (r *UserRepository) load(db *gorm.DB, uid uint, id string) (*model.User, error) {
	var rec userRecord
	if err := db.First(&rec, uid).Error; err != nil {
		return nil, notFoundOr(err, "user", id, "find user")
	}
	users, err := r.withRefs(db, []userRecord{rec})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

// withRefs 一次查询取回所有用户的引用集合
func (r *UserRepository) withRefs(db *gorm.DB, recs []userRecord) ([]*model.User, error) {
	if len(recs) == 0 {
		return []*model.User{}, nil
	}
	ids := make([]uint, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	var refs []userRefRecord
	if err := db.Where("user_id IN ?", ids).Order("id").Find(&refs).Error; err != nil {
		return nil, fmt.Errorf("find user refs: %w", err)
	}
	grouped := make(map[uint][]userRefRecord, len(recs))
	for _, ref := range refs {
		grouped[ref.UserID] = append(grouped[ref.UserID], ref)
	}
	out := make([]*model.User, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel(grouped[recs[i].ID]))
	}
	return out, nil
}

// addRef 唯一键冲突时忽略，实现集合语义
func addRef(tx *gorm.DB, uid uint, field repository.RefField, ref string) error {
	rec := userRefRecord{UserID: uid, Kind: string(field), RefID: ref}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
	if err != nil && !isDuplicate(err) {
		return fmt.Errorf("add %s ref: %w", field, err)
	}
	return nil
}

func moveToFriends(tx *gorm.DB, uid uint, friendID string) error {
	err := tx.Where("user_id = ? AND kind = ? AND ref_id = ?", uid, string(repository.RefPendingFriends), friendID).
		Delete(&userRefRecord{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("remove pending friend: %w", err)
	}
	return addRef(tx, uid, repository.RefFriends, friendID)
}
