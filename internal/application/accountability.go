// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// PassReport is the outcome of one accountability pass. Checks holds exactly
// one entry per tracked card examined, in credential order then card
// creation order. NothingToCheck is set when no credentials exist at all.
type PassReport struct {
	NothingToCheck bool
	Checks         []model.CardCheck
	Started        time.Time
	Duration       time.Duration
}

// AccountabilityService periodically reconciles tracked Trello cards against
// their current remote state and reports which cards moved out of their
// recorded list. It is read-only: it never writes to Trello and never
// mutates the tracked-card records.
type AccountabilityService struct {
	credStore     driven.TrelloCredentialStore
	userStore     driven.UserStore
	cardStore     driven.CardStore
	factory       driven.TrelloClientFactory
	interval      time.Duration
	remoteTimeout time.Duration
}

// NewAccountabilityService creates an AccountabilityService.
// interval is the pause between passes; remoteTimeout bounds each individual
// remote call so one stalled endpoint cannot hang a whole pass.
func NewAccountabilityService(
	credStore driven.TrelloCredentialStore,
	userStore driven.UserStore,
	cardStore driven.CardStore,
	factory driven.TrelloClientFactory,
	interval time.Duration,
	remoteTimeout time.Duration,
) *AccountabilityService {
	return &AccountabilityService{
		credStore:     credStore,
		userStore:     userStore,
		cardStore:     cardStore,
		factory:       factory,
		interval:      interval,
		remoteTimeout: remoteTimeout,
	}
}

// Start begins the reconciliation loop. It runs an immediate pass, then one
// pass per interval tick. Passes never overlap: the loop body runs each pass
// to completion before selecting again, and a tick arriving mid-pass is
// coalesced by the ticker. Start blocks until the context is canceled; an
// in-flight pass stops between items, never mid-item.
func (s *AccountabilityService) Start(ctx context.Context) {
	if _, err := s.RunPass(ctx); err != nil {
		slog.Error("initial accountability pass failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("accountability service stopped")
			return
		case <-ticker.C:
			if _, err := s.RunPass(ctx); err != nil {
				slog.Error("accountability pass failed", "error", err)
			}
		}
	}
}

// RunPass executes one reconciliation pass over all stored credentials and
// their tracked cards. Errors are contained at the smallest possible scope:
// a failed remote fetch yields a CheckError signal for that card only, and a
// credential that cannot be used (missing user, unusable client) is skipped.
// RunPass returns an error only when the credential listing itself fails or
// the context is canceled.
func (s *AccountabilityService) RunPass(ctx context.Context) (*PassReport, error) {
	report := &PassReport{Started: time.Now()}
	defer func() { report.Duration = time.Since(report.Started) }()

	slog.Info("accountability pass starting")

	creds, err := s.credStore.ListAll(ctx)
	if err != nil {
		return report, err
	}

	if len(creds) == 0 {
		report.NothingToCheck = true
		slog.Info("no trello integrations to check")
		return report, nil
	}

	for _, cred := range creds {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		if err := s.checkCredential(ctx, cred, report); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			slog.Error("credential check failed", "user_id", cred.UserID, "error", err)
		}
	}

	slog.Info("accountability pass complete",
		"credentials", len(creds),
		"cards_checked", len(report.Checks),
		"duration", report.Duration.Round(time.Millisecond),
	)

	return report, nil
}

// checkCredential reconciles all tracked cards belonging to one credential's
// owner. A missing owner is orphaned data and is skipped silently; a client
// construction failure is a configuration error and is skipped with a log
// line. Neither aborts the pass.
func (s *AccountabilityService) checkCredential(ctx context.Context, cred model.TrelloCredential, report *PassReport) error {
	user, err := s.userStore.GetByID(ctx, cred.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		// Credential outlived its user; skip without noise.
		return nil
	}

	client, err := s.factory.NewClient(cred.Token)
	if err != nil {
		slog.Warn("cannot build trello client, skipping credential", "user_id", cred.UserID, "error", err)
		return nil
	}

	cards, err := s.cardStore.ListByUser(ctx, cred.UserID)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		slog.Info("no tracked cards for user", "user_id", cred.UserID)
		return nil
	}

	for _, card := range cards {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report.Checks = append(report.Checks, s.checkCard(ctx, client, card))
	}

	return nil
}

// checkCard reconciles a single tracked card and returns its signal. All
// remote failures are folded into a CheckError signal; the card may simply
// have been deleted in Trello.
func (s *AccountabilityService) checkCard(ctx context.Context, client driven.TrelloClient, card model.TrackedCard) model.CardCheck {
	check := model.CardCheck{CardID: card.CardID, OldListID: card.ListID}

	fetchCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	remote, err := client.GetCard(fetchCtx, card.CardID)
	cancel()
	if err != nil {
		check.Status = model.CheckError
		check.Detail = err.Error()
		slog.Warn("could not fetch card, it may have been deleted",
			"card_id", card.CardID, "error", err)
		return check
	}

	check.CardName = remote.Name

	if remote.ListID == card.ListID {
		check.Status = model.CheckUnchanged
		slog.Info("card unchanged", "card", remote.Name, "list_id", card.ListID)
		return check
	}

	check.Status = model.CheckMoved
	check.NewListID = remote.ListID
	check.NewListName = s.resolveListName(ctx, client, remote.ListID)
	slog.Info("card moved",
		"card", remote.Name,
		"old_list_id", card.ListID,
		"new_list", check.NewListName,
	)
	return check
}

// resolveListName looks up the display name of a list, falling back to the
// raw ID when the lookup fails. Name resolution is cosmetic; it must never
// turn a successful move detection into an error.
func (s *AccountabilityService) resolveListName(ctx context.Context, client driven.TrelloClient, listID string) string {
	fetchCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	list, err := client.GetList(fetchCtx, listID)
	if err != nil || list == nil {
		return listID
	}
	return list.Name
}
