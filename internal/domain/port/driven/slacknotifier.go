package driven

import (
	"context"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// SlackNotifier defines the driven port for posting meeting analyses to a
// team's incoming webhook.
type SlackNotifier interface {
	PostSummary(ctx context.Context, webhookURL string, analysis model.Analysis) error
}
