package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// FallbackQuery replaces a blank client query before expansion.
const FallbackQuery = "General search"

// Expander rewrites a short client query into a fuller request so the
// embedding has more signal to work with. The original text is always kept
// in front of the expansion: literal keywords ("3-bedroom", a city name)
// must survive even when the model paraphrases them away.
type Expander struct {
	generator IGenerator
	timeout   time.Duration
}

func NewExpander(generator IGenerator, timeout time.Duration) *Expander {
	return &Expander{generator: generator, timeout: timeout}
}

// Expand returns the text to embed for a client query, plus whether the
// expansion actually happened. Expansion failures and empty model output
// degrade to the original query alone; the caller never sees an error from
// this path.
func (e *Expander) Expand(ctx context.Context, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = FallbackQuery
	}
	if e == nil || e.generator == nil {
		return query, false
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	prompt := fmt.Sprintf(`You are an assistant for an architecture marketplace.
Rewrite the client needs below into a natural request for an architect.
- Write 2-3 descriptive sentences.
- Keep every concrete detail (style, rooms, budget, location).
- Output ONLY the rewritten request.

CLIENT NEEDS:
%s`, query)
	expanded, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Warn("query expansion failed, using raw query", zap.Error(err))
		return query, false
	}
	expanded = strings.TrimSpace(expanded)
	if expanded == "" {
		logutil.GetLogger(ctx).Warn("query expansion returned empty output, using raw query")
		return query, false
	}
	return query + "\n" + expanded, true
}
