package service

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/archimatch/archimatch/internal/model"
	"github.com/archimatch/archimatch/internal/notify"
	"github.com/archimatch/archimatch/internal/observability"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
)

type matchStore interface {
	Create(ctx context.Context, m *model.MatchRequest) error
	GetByID(ctx context.Context, id string) (*model.MatchRequest, error)
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error
	ListPendingForArchitect(ctx context.Context, architectID string) ([]model.PendingMatch, error)
	ListByClient(ctx context.Context, clientID string) ([]model.MatchRequest, error)
}

type architectGetter interface {
	GetByID(ctx context.Context, id string) (*model.ArchitectProfile, error)
}

type userGetter interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// MatchService owns the match-request ledger: one row per (client,
// architect) pair, Pending until the architect approves or declines, both
// terminal.
type MatchService struct {
	matches    matchStore
	architects architectGetter
	users      userGetter
	notifier   notify.Notifier
}

func NewMatchService(matches matchStore, architects architectGetter, users userGetter, notifier notify.Notifier) *MatchService {
	if notifier == nil {
		notifier = notify.NewLogNotifier()
	}
	return &MatchService{
		matches:    matches,
		architects: architects,
		users:      users,
		notifier:   notifier,
	}
}

// RequestMatch creates a Pending request from clientID to architectID and
// notifies the architect. A prior request for the pair, whatever its
// status, rejects the new one with ErrConflict.
func (s *MatchService) RequestMatch(ctx context.Context, clientID, architectID string) (*model.MatchRequest, error) {
	clientID = strings.TrimSpace(clientID)
	architectID = strings.TrimSpace(architectID)
	if clientID == "" || architectID == "" {
		return nil, appErr.ErrInvalid
	}
	logger := logutil.GetLogger(ctx).With(
		zap.String("client_id", clientID),
		zap.String("architect_id", architectID),
	)
	if _, err := s.architects.GetByID(ctx, architectID); err != nil {
		return nil, err
	}
	m := &model.MatchRequest{
		ID:          newID(),
		ClientID:    clientID,
		ArchitectID: architectID,
		Status:      model.MatchStatusPending,
		Ctime:       time.Now().UnixMilli(),
	}
	if err := s.matches.Create(ctx, m); err != nil {
		if appErr.IsConflict(err) {
			observability.MatchRequestsDuplicate.Inc()
			logger.Info("duplicate match request rejected")
		} else {
			logger.Error("failed to create match request", zap.Error(err))
		}
		return nil, err
	}
	observability.MatchRequestsCreated.Inc()
	logger.Info("match request created", zap.String("match_id", m.ID))
	s.notifyArchitect(ctx, m)
	return m, nil
}

// RespondToMatch applies the architect's decision. The repo-level status
// check in the update keeps a raced second response from overwriting the
// first, so "already responded" always comes back as ErrConflict.
func (s *MatchService) RespondToMatch(ctx context.Context, matchID, architectID string, approve bool) (*model.MatchRequest, error) {
	matchID = strings.TrimSpace(matchID)
	architectID = strings.TrimSpace(architectID)
	if matchID == "" || architectID == "" {
		return nil, appErr.ErrInvalid
	}
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.ArchitectID != architectID {
		return nil, appErr.ErrForbidden
	}
	if model.IsTerminalMatchStatus(m.Status) {
		return nil, appErr.ErrConflict
	}
	newStatus := model.MatchStatusDeclined
	if approve {
		newStatus = model.MatchStatusApproved
	}
	if err := s.matches.UpdateStatus(ctx, matchID, model.MatchStatusPending, newStatus); err != nil {
		return nil, err
	}
	m.Status = newStatus
	logutil.GetLogger(ctx).Info("match request resolved",
		zap.String("match_id", matchID),
		zap.String("architect_id", architectID),
		zap.String("status", newStatus),
	)
	return m, nil
}

func (s *MatchService) ListPending(ctx context.Context, architectID string) ([]model.PendingMatch, error) {
	if strings.TrimSpace(architectID) == "" {
		return nil, appErr.ErrInvalid
	}
	return s.matches.ListPendingForArchitect(ctx, architectID)
}

func (s *MatchService) ListForClient(ctx context.Context, clientID string) ([]model.MatchRequest, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, appErr.ErrInvalid
	}
	return s.matches.ListByClient(ctx, clientID)
}

// notifyArchitect is best effort: the request row is already committed, a
// lost push must not fail the call.
func (s *MatchService) notifyArchitect(ctx context.Context, m *model.MatchRequest) {
	clientName := "A client"
	if client, err := s.users.GetByID(ctx, m.ClientID); err == nil && client.DisplayName != "" {
		clientName = client.DisplayName
	}
	event := notify.Event{
		UserID:    m.ArchitectID,
		Title:     "New match request",
		Message:   clientName + " wants to work with you",
		Timestamp: m.Ctime,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		observability.NotificationsSent.WithLabelValues("error").Inc()
		logutil.GetLogger(ctx).Warn("failed to notify architect",
			zap.String("architect_id", m.ArchitectID),
			zap.Error(err),
		)
		return
	}
	observability.NotificationsSent.WithLabelValues("ok").Inc()
}
