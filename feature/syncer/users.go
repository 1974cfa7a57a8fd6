package syncer

import (
	"context"
	"errors"

	"content-sync/feature/syncer/models"

	"go.uber.org/zap"
)

// ErrNoLogin is returned when a user payload carries no login.
var ErrNoLogin = errors.New("user has no login")

// UserSyncer reconciles user accounts. Users are matched by login rather
// than external ID; the external ID arrives in meta_input and is written as
// usermeta so the author mapper can find the account later.
type UserSyncer struct {
	store  *Store
	logger *zap.Logger
}

// NewUserSyncer creates a user syncer.
func NewUserSyncer(store *Store, logger *zap.Logger) *UserSyncer {
	return &UserSyncer{store: store, logger: logger}
}

// Upsert creates the user when missing, then applies every meta key/value
// and assigns the role. Returns the local user ID.
func (u *UserSyncer) Upsert(ctx context.Context, p *models.UserPayload) (uint, error) {
	if p.Login == "" {
		return 0, ErrNoLogin
	}

	user, err := u.store.FindUserByLogin(ctx, p.Login)
	if err != nil {
		return 0, err
	}

	var userID uint
	if user == nil {
		created := models.User{
			Login:       p.Login,
			Email:       p.Email,
			DisplayName: p.DisplayName,
		}
		userID, err = u.store.CreateUser(ctx, &created)
		if err != nil {
			return 0, err
		}
	} else {
		userID = user.ID
	}

	for key, value := range p.MetaInput {
		if err := u.store.SetUserMeta(ctx, userID, key, value); err != nil {
			return 0, err
		}
	}

	if p.Role != "" {
		if err := u.store.AssignRole(ctx, userID, p.Role); err != nil {
			return 0, err
		}
	}

	return userID, nil
}
