package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/archimatch/archimatch/internal/ai"
	"github.com/archimatch/archimatch/internal/model"
	"github.com/archimatch/archimatch/internal/observability"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
	"github.com/archimatch/archimatch/internal/portfolio"
	"github.com/archimatch/archimatch/internal/vector"
)

type architectStore interface {
	GetByID(ctx context.Context, id string) (*model.ArchitectProfile, error)
	Create(ctx context.Context, a *model.ArchitectProfile) error
	UpdateFields(ctx context.Context, id string, update map[string]interface{}) error
	SaveEmbedding(ctx context.Context, id, embedding, embedHash string, embedMtime int64) error
	ListStaleEmbeddings(ctx context.Context, limit int) ([]*model.ArchitectProfile, error)
}

type ProfileUpdateInput struct {
	Style          string `json:"style"`
	Specialization string `json:"specialization"`
	Location       string `json:"location"`
	BudgetRange    string `json:"budget_range"`
	Bio            string `json:"bio"`
}

// ProfileService owns the portfolio embedding lifecycle: any edit that
// changes an architect's descriptive text re-synthesizes PortfolioText and
// regenerates its embedding. Embedding failure is non-fatal; the edit
// persists with the previous (or absent) embedding in place and the
// backfill job retries later.
type ProfileService struct {
	architects   architectStore
	embedder     ai.IEmbedder
	embedTimeout time.Duration
}

func NewProfileService(architects architectStore, embedder ai.IEmbedder, embedTimeout time.Duration) *ProfileService {
	return &ProfileService{
		architects:   architects,
		embedder:     embedder,
		embedTimeout: embedTimeout,
	}
}

func (s *ProfileService) Get(ctx context.Context, id string) (*model.ArchitectProfile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErr.ErrInvalid
	}
	return s.architects.GetByID(ctx, id)
}

func (s *ProfileService) Register(ctx context.Context, a *model.ArchitectProfile) error {
	if strings.TrimSpace(a.ID) == "" {
		return appErr.ErrInvalid
	}
	now := time.Now().UnixMilli()
	a.Ctime = now
	a.Mtime = now
	a.PortfolioText = portfolio.Synthesize(a, []string{a.CredentialsText})
	if err := s.architects.Create(ctx, a); err != nil {
		return err
	}
	s.refreshEmbedding(ctx, a)
	return nil
}

// UpdateProfile applies a profile edit and refreshes the derived text and
// embedding.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, input ProfileUpdateInput) (*model.ArchitectProfile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErr.ErrInvalid
	}
	a, err := s.architects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Style = strings.TrimSpace(input.Style)
	a.Specialization = strings.TrimSpace(input.Specialization)
	a.Location = strings.TrimSpace(input.Location)
	a.BudgetRange = strings.TrimSpace(input.BudgetRange)
	a.Bio = strings.TrimSpace(input.Bio)
	a.PortfolioText = portfolio.Synthesize(a, []string{a.CredentialsText})
	a.Mtime = time.Now().UnixMilli()

	err = s.architects.UpdateFields(ctx, id, map[string]interface{}{
		"style":          a.Style,
		"specialization": a.Specialization,
		"location":       a.Location,
		"budget_range":   a.BudgetRange,
		"bio":            a.Bio,
		"portfolio_text": a.PortfolioText,
		"mtime":          a.Mtime,
	})
	if err != nil {
		return nil, err
	}
	s.refreshEmbedding(ctx, a)
	return a, nil
}

// IngestCredential folds the plain text of an uploaded credential document
// into the architect's portfolio. Markdown is stripped to plain text first;
// the document bytes themselves live in the external object store.
func (s *ProfileService) IngestCredential(ctx context.Context, id string, document []byte) (*model.ArchitectProfile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErr.ErrInvalid
	}
	text := portfolio.ExtractMarkdownText(document)
	if text == "" {
		return nil, appErr.ErrInvalid
	}
	a, err := s.architects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.CredentialsText == "" {
		a.CredentialsText = text
	} else {
		a.CredentialsText = a.CredentialsText + "\n" + text
	}
	a.PortfolioText = portfolio.Synthesize(a, []string{a.CredentialsText})
	a.Mtime = time.Now().UnixMilli()

	err = s.architects.UpdateFields(ctx, id, map[string]interface{}{
		"credentials_text": a.CredentialsText,
		"portfolio_text":   a.PortfolioText,
		"mtime":            a.Mtime,
	})
	if err != nil {
		return nil, err
	}
	s.refreshEmbedding(ctx, a)
	return a, nil
}

// UpdateRating applies an external rating event. Rating changes do not
// affect the portfolio text, so no re-embedding happens here.
func (s *ProfileService) UpdateRating(ctx context.Context, id string, rating float64) error {
	if strings.TrimSpace(id) == "" || rating < 0 || rating > 5 {
		return appErr.ErrInvalid
	}
	return s.architects.UpdateFields(ctx, id, map[string]interface{}{
		"rating": rating,
	})
}

// RefreshEmbedding regenerates the stored embedding for an architect when
// the portfolio text changed since the last successful embed. Used by both
// the edit paths and the backfill job.
func (s *ProfileService) RefreshEmbedding(ctx context.Context, a *model.ArchitectProfile) error {
	if a.PortfolioText == "" {
		return nil
	}
	hash := contentHash(a.PortfolioText)
	now := time.Now().UnixMilli()
	if hash == a.EmbedHash && a.PortfolioEmbedding != "" {
		// Text unchanged; bump embed_mtime so the row stops looking stale.
		return s.architects.SaveEmbedding(ctx, a.ID, a.PortfolioEmbedding, a.EmbedHash, now)
	}
	emb, err := s.embedPortfolio(ctx, a.PortfolioText)
	if err != nil {
		observability.EmbeddingFailures.WithLabelValues("RETRIEVAL_DOCUMENT").Inc()
		return err
	}
	observability.EmbeddingsGenerated.WithLabelValues("RETRIEVAL_DOCUMENT").Inc()
	if err := s.architects.SaveEmbedding(ctx, a.ID, vector.Encode(emb), hash, now); err != nil {
		return err
	}
	a.PortfolioEmbedding = vector.Encode(emb)
	a.EmbedHash = hash
	a.EmbedMtime = now
	return nil
}

// BackfillEmbeddings re-embeds architects whose portfolio text changed
// while the provider was unavailable. Stops on the first provider error;
// the next run picks up where it left off.
func (s *ProfileService) BackfillEmbeddings(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = 50
	}
	stale, err := s.architects.ListStaleEmbeddings(ctx, limit)
	if err != nil {
		return err
	}
	for _, a := range stale {
		if err := s.RefreshEmbedding(ctx, a); err != nil {
			return err
		}
	}
	if len(stale) > 0 {
		logutil.GetLogger(ctx).Info("portfolio embeddings backfilled", zap.Int("count", len(stale)))
	}
	return nil
}

func (s *ProfileService) refreshEmbedding(ctx context.Context, a *model.ArchitectProfile) {
	if err := s.RefreshEmbedding(ctx, a); err != nil {
		logutil.GetLogger(ctx).Error("failed to refresh portfolio embedding",
			zap.String("architect_id", a.ID),
			zap.Error(err),
		)
	}
}

func (s *ProfileService) embedPortfolio(ctx context.Context, text string) ([]float32, error) {
	if s.embedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.embedTimeout)
		defer cancel()
	}
	return s.embedder.Embed(ctx, text, "RETRIEVAL_DOCUMENT")
}

func contentHash(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
