package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/archimatch/archimatch/internal/ai"
	"github.com/archimatch/archimatch/internal/matching"
	"github.com/archimatch/archimatch/internal/model"
	"github.com/archimatch/archimatch/internal/observability"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
)

type candidateLister interface {
	ListWithEmbeddings(ctx context.Context) ([]*model.ArchitectProfile, error)
}

type matchStatusReader interface {
	StatusesForClient(ctx context.Context, clientID string) (map[string]string, error)
}

// MatchingService runs one ranking request end to end: expand the query,
// embed it, score the candidate pool, annotate with the caller's match
// statuses. Ranking has no side effects, so an abandoned request needs no
// cleanup.
type MatchingService struct {
	expander     *ai.Expander
	embedder     ai.IEmbedder
	architects   candidateLister
	matches      matchStatusReader
	topK         int
	embedTimeout time.Duration
}

func NewMatchingService(
	expander *ai.Expander,
	embedder ai.IEmbedder,
	architects candidateLister,
	matches matchStatusReader,
	topK int,
	embedTimeout time.Duration,
) *MatchingService {
	if topK <= 0 {
		topK = matching.DefaultTopK
	}
	return &MatchingService{
		expander:     expander,
		embedder:     embedder,
		architects:   architects,
		matches:      matches,
		topK:         topK,
		embedTimeout: embedTimeout,
	}
}

// RankMatches returns the top candidates for a free-text client query.
// clientID may be empty (anonymous browsing); when set, each candidate
// carries the caller's match-request status for that architect.
func (s *MatchingService) RankMatches(ctx context.Context, clientID, query string) ([]matching.RankedCandidate, error) {
	observability.RankRequests.Inc()
	start := time.Now()
	defer func() {
		observability.RankDuration.Observe(time.Since(start).Seconds())
	}()
	logger := logutil.GetLogger(ctx).With(zap.String("client_id", clientID))

	text, expanded := s.expander.Expand(ctx, query)
	if !expanded && strings.TrimSpace(query) != "" {
		observability.ExpansionFallbacks.Inc()
	}

	queryVec, err := s.embedQuery(ctx, text)
	if err != nil {
		logger.Error("failed to embed search query", zap.Error(err))
		observability.EmbeddingFailures.WithLabelValues("RETRIEVAL_QUERY").Inc()
		return nil, fmt.Errorf("%w: embed query: %v", appErr.ErrUpstream, err)
	}
	observability.EmbeddingsGenerated.WithLabelValues("RETRIEVAL_QUERY").Inc()

	candidates, err := s.architects.ListWithEmbeddings(ctx)
	if err != nil {
		logger.Error("failed to load candidate pool", zap.Error(err))
		return nil, err
	}

	ranked := matching.Rank(queryVec, candidates, s.topK)
	logger.Debug("ranked candidates",
		zap.Int("pool", len(candidates)),
		zap.Int("ranked", len(ranked)),
	)

	if clientID != "" && len(ranked) > 0 {
		statuses, err := s.matches.StatusesForClient(ctx, clientID)
		if err != nil {
			logger.Error("failed to load match statuses", zap.Error(err))
			return nil, err
		}
		for i := range ranked {
			ranked[i].MatchStatus = statuses[ranked[i].Architect.ID]
		}
	}
	return ranked, nil
}

func (s *MatchingService) embedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.embedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.embedTimeout)
		defer cancel()
	}
	return s.embedder.Embed(ctx, text, "RETRIEVAL_QUERY")
}
