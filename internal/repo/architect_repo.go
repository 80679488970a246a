package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/archimatch/archimatch/internal/model"
	"github.com/archimatch/archimatch/internal/pkg/dbutil"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
)

var architectColumns = []string{
	"id", "display_name", "style", "specialization", "location", "budget_range",
	"bio", "rating", "pro", "credentials_text", "portfolio_text", "portfolio_embedding",
	"embed_hash", "embed_mtime", "ctime", "mtime",
}

type ArchitectRepo struct {
	db *sql.DB
}

func NewArchitectRepo(db *sql.DB) *ArchitectRepo {
	return &ArchitectRepo{db: db}
}

func scanArchitect(rows *sql.Rows) (*model.ArchitectProfile, error) {
	var a model.ArchitectProfile
	if err := rows.Scan(
		&a.ID, &a.DisplayName, &a.Style, &a.Specialization, &a.Location,
		&a.BudgetRange, &a.Bio, &a.Rating, &a.Pro, &a.CredentialsText, &a.PortfolioText,
		&a.PortfolioEmbedding, &a.EmbedHash, &a.EmbedMtime, &a.Ctime, &a.Mtime,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArchitectRepo) Create(ctx context.Context, a *model.ArchitectProfile) error {
	data := map[string]interface{}{
		"id":                  a.ID,
		"display_name":        a.DisplayName,
		"style":               a.Style,
		"specialization":      a.Specialization,
		"location":            a.Location,
		"budget_range":        a.BudgetRange,
		"bio":                 a.Bio,
		"rating":              a.Rating,
		"pro":                 a.Pro,
		"credentials_text":    a.CredentialsText,
		"portfolio_text":      a.PortfolioText,
		"portfolio_embedding": a.PortfolioEmbedding,
		"embed_hash":          a.EmbedHash,
		"embed_mtime":         a.EmbedMtime,
		"ctime":               a.Ctime,
		"mtime":               a.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("architects", []map[string]interface{}{data})
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

func (r *ArchitectRepo) GetByID(ctx context.Context, id string) (*model.ArchitectProfile, error) {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildSelect("architects", where, architectColumns)
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
	return scanArchitect(rows)
}

// ListWithEmbeddings returns the ranking candidate pool: every architect
// carrying a non-empty stored embedding, in id order so exact score ties
// stay deterministic.
func (r *ArchitectRepo) ListWithEmbeddings(ctx context.Context) ([]*model.ArchitectProfile, error) {
	where := map[string]interface{}{
		"portfolio_embedding !=": "",
		"_orderby":               "id",
	}
	sqlStr, args, err := builder.BuildSelect("architects", where, architectColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var results []*model.ArchitectProfile
	for rows.Next() {
		a, err := scanArchitect(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func (r *ArchitectRepo) UpdateFields(ctx context.Context, id string, update map[string]interface{}) error {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildUpdate("architects", where, update)
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
		return appErr.ErrNotFound
	}
	return nil
}

func (r *ArchitectRepo) SaveEmbedding(ctx context.Context, id, embedding, embedHash string, embedMtime int64) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"portfolio_embedding": embedding,
		"embed_hash":          embedHash,
		"embed_mtime":         embedMtime,
	})
}

// ListStaleEmbeddings returns architects whose portfolio text exists but
// whose embedding is missing or older than the last profile edit. Feeds
// the backfill job after provider outages.
func (r *ArchitectRepo) ListStaleEmbeddings(ctx context.Context, limit int) ([]*model.ArchitectProfile, error) {
	const query = `
		SELECT id, display_name, style, specialization, location, budget_range,
			bio, rating, pro, credentials_text, portfolio_text, portfolio_embedding,
			embed_hash, embed_mtime, ctime, mtime
		FROM architects
		WHERE portfolio_text <> '' AND (portfolio_embedding = '' OR embed_mtime < mtime)
		ORDER BY mtime
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var results []*model.ArchitectProfile
	for rows.Next() {
		a, err := scanArchitect(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
