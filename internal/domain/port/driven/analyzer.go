package driven

import (
	"context"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// TranscriptAnalyzer defines the driven port for AI transcript analysis.
type TranscriptAnalyzer interface {
	// Analyze extracts a summary, decisions, and action items from the
	// given transcript text.
	Analyze(ctx context.Context, transcript string) (*model.Analysis, error)
}
