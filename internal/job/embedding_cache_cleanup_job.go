package job

import (
	"context"
	"time"

	"github.com/archimatch/archimatch/internal/repo"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// EmbeddingCacheCleanupJob prunes embedding cache rows older than the
// configured retention so stale model outputs do not accumulate.
type EmbeddingCacheCleanupJob struct {
	cache     *repo.EmbeddingCacheRepo
	retention time.Duration
}

func NewEmbeddingCacheCleanupJob(cache *repo.EmbeddingCacheRepo, retention time.Duration) *EmbeddingCacheCleanupJob {
	return &EmbeddingCacheCleanupJob{cache: cache, retention: retention}
}

func (j *EmbeddingCacheCleanupJob) Name() string {
	return "embedding_cache_cleanup"
}

func (j *EmbeddingCacheCleanupJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-j.retention).UnixMilli()
	deleted, err := j.cache.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("embedding cache cleaned", zap.Int64("deleted", deleted))
	}
	return nil
}
