package service

import (
	"context"
	"strings"
	"time"

	"github.com/archimatch/archimatch/internal/model"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
)

type userStore interface {
	Upsert(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

// UserService maintains the local user directory. Identity lives in the
// JWT issuer; this table only mirrors display data for joins and
// notifications.
type UserService struct {
	users userStore
}

func NewUserService(users userStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) SyncProfile(ctx context.Context, userID, displayName, role string) (*model.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, appErr.ErrInvalid
	}
	if role != model.RoleClient && role != model.RoleArchitect {
		return nil, appErr.ErrInvalid
	}
	now := time.Now().UnixMilli()
	user := &model.User{
		ID:          userID,
		DisplayName: strings.TrimSpace(displayName),
		Role:        role,
		Ctime:       now,
		Mtime:       now,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, appErr.ErrInvalid
	}
	return s.users.GetByID(ctx, userID)
}
