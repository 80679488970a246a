package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/archimatch/archimatch/internal/model"
	"github.com/archimatch/archimatch/internal/pkg/dbutil"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Upsert(ctx context.Context, user *model.User) error {
	const query = `
		INSERT INTO users (id, display_name, role, ctime, mtime)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			role = EXCLUDED.role,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.DisplayName, user.Role, user.Ctime, user.Mtime)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*model.User, error) {
	where := map[string]interface{}{"id": userID}
	sqlStr, args, err := builder.BuildSelect("users", where, []string{"id", "display_name", "role", "ctime", "mtime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var user model.User
	if err := rows.Scan(&user.ID, &user.DisplayName, &user.Role, &user.Ctime, &user.Mtime); err != nil {
		return nil, err
	}
	return &user, nil
}
