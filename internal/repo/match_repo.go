package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/archimatch/archimatch/internal/model"
	"github.com/archimatch/archimatch/internal/pkg/dbutil"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
)

type MatchRepo struct {
	db *sql.DB
}

func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Create inserts a new Pending request. The UNIQUE(client_id, architect_id)
// constraint is the duplicate guard: a concurrent insert for the same pair
// loses with a 23505, which surfaces as ErrConflict. No prior lookup is
// needed, so there is no check-then-insert race.
func (r *MatchRepo) Create(ctx context.Context, m *model.MatchRequest) error {
	data := map[string]interface{}{
		"id":           m.ID,
		"client_id":    m.ClientID,
		"architect_id": m.ArchitectID,
		"status":       m.Status,
		"ctime":        m.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("match_requests", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *MatchRepo) GetByID(ctx context.Context, id string) (*model.MatchRequest, error) {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildSelect("match_requests", where, []string{"id", "client_id", "architect_id", "status", "ctime"})
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
	var m model.MatchRequest
	if err := rows.Scan(&m.ID, &m.ClientID, &m.ArchitectID, &m.Status, &m.Ctime); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateStatus transitions a request out of fromStatus. The status check
// lives in the WHERE clause so a concurrent response to the same match
// cannot overwrite a terminal state; the loser sees zero affected rows.
func (r *MatchRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	where := map[string]interface{}{
		"id":     id,
		"status": fromStatus,
	}
	update := map[string]interface{}{"status": toStatus}
	sqlStr, args, err := builder.BuildUpdate("match_requests", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrConflict
	}
	return nil
}

func (r *MatchRepo) ListPendingForArchitect(ctx context.Context, architectID string) ([]model.PendingMatch, error) {
	const query = `
		SELECT m.id, m.client_id, m.architect_id, m.status, m.ctime, u.display_name
		FROM match_requests m
		JOIN users u ON u.id = m.client_id
		WHERE m.architect_id = $1 AND m.status = $2
		ORDER BY m.ctime DESC
	`
	rows, err := r.db.QueryContext(ctx, query, architectID, model.MatchStatusPending)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var results []model.PendingMatch
	for rows.Next() {
		var m model.PendingMatch
		if err := rows.Scan(&m.ID, &m.ClientID, &m.ArchitectID, &m.Status, &m.Ctime, &m.ClientName); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func (r *MatchRepo) ListByClient(ctx context.Context, clientID string) ([]model.MatchRequest, error) {
	where := map[string]interface{}{
		"client_id": clientID,
		"_orderby":  "ctime desc",
	}
	sqlStr, args, err := builder.BuildSelect("match_requests", where, []string{"id", "client_id", "architect_id", "status", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var results []model.MatchRequest
	for rows.Next() {
		var m model.MatchRequest
		if err := rows.Scan(&m.ID, &m.ClientID, &m.ArchitectID, &m.Status, &m.Ctime); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// StatusesForClient maps architect id to the client's request status, used
// to annotate ranked candidates.
func (r *MatchRepo) StatusesForClient(ctx context.Context, clientID string) (map[string]string, error) {
	matches, err := r.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]string, len(matches))
	for _, m := range matches {
		statuses[m.ArchitectID] = m.Status
	}
	return statuses, nil
}
