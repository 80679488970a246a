package job

import (
	"context"

	"github.com/archimatch/archimatch/internal/service"
)

// EmbeddingBackfillJob periodically re-embeds architect profiles whose
// portfolio text changed after their last embedding run.
type EmbeddingBackfillJob struct {
	profiles  *service.ProfileService
	batchSize int
}

func NewEmbeddingBackfillJob(profiles *service.ProfileService, batchSize int) *EmbeddingBackfillJob {
	return &EmbeddingBackfillJob{profiles: profiles, batchSize: batchSize}
}

func (j *EmbeddingBackfillJob) Name() string {
	return "embedding_backfill"
}

func (j *EmbeddingBackfillJob) Run(ctx context.Context) error {
	return j.profiles.BackfillEmbeddings(ctx, j.batchSize)
}
