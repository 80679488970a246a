package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/archimatch/archimatch/internal/model"
	appErr "github.com/archimatch/archimatch/internal/pkg/errors"
)

func newMatchFixture() (*MatchService, *fakeMatchStore, *recordingNotifier) {
	store := newFakeMatchStore()
	store.clients["client-1"] = "Alice"
	architects := newFakeArchitectStore(&model.ArchitectProfile{ID: "arch-1", DisplayName: "Jane"})
	users := &fakeUserStore{users: map[string]*model.User{
		"client-1": {ID: "client-1", DisplayName: "Alice", Role: model.RoleClient},
	}}
	notifier := &recordingNotifier{}
	return NewMatchService(store, architects, users, notifier), store, notifier
}

func TestRequestMatchCreatesPendingAndNotifies(t *testing.T) {
	svc, _, notifier := newMatchFixture()

	m, err := svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)
	require.Equal(t, model.MatchStatusPending, m.Status)

	require.Len(t, notifier.events, 1)
	require.Equal(t, "arch-1", notifier.events[0].UserID)
	require.Contains(t, notifier.events[0].Message, "Alice")
	require.Equal(t, m.Ctime, notifier.events[0].Timestamp)
}

func TestRequestMatchDuplicatePair(t *testing.T) {
	svc, _, _ := newMatchFixture()

	_, err := svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.NoError(t, err)
	_, err = svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.ErrorIs(t, err, appErr.ErrConflict)
}

func TestRequestMatchDuplicateEvenAfterDecline(t *testing.T) {
	svc, _, _ := newMatchFixture()

	m, err := svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.NoError(t, err)
	_, err = svc.RespondToMatch(context.Background(), m.ID, "arch-1", false)
	require.NoError(t, err)

	_, err = svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.ErrorIs(t, err, appErr.ErrConflict)
}

func TestRequestMatchConcurrentSamePair(t *testing.T) {
	svc, store, _ := newMatchFixture()

	const calls = 16
	var wg sync.WaitGroup
	errs := make([]error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RequestMatch(context.Background(), "client-1", "arch-1")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, appErr.ErrConflict)
		}
	}
	require.Equal(t, 1, successes)
	require.Len(t, store.byID, 1)
}

func TestRequestMatchValidation(t *testing.T) {
	svc, _, _ := newMatchFixture()

	_, err := svc.RequestMatch(context.Background(), "", "arch-1")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.RequestMatch(context.Background(), "client-1", "  ")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestRequestMatchUnknownArchitect(t *testing.T) {
	svc, _, _ := newMatchFixture()

	_, err := svc.RequestMatch(context.Background(), "client-1", "arch-nope")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestRequestMatchSurvivesNotifierFailure(t *testing.T) {
	store := newFakeMatchStore()
	architects := newFakeArchitectStore(&model.ArchitectProfile{ID: "arch-1"})
	users := &fakeUserStore{users: map[string]*model.User{}}
	notifier := &recordingNotifier{err: appErr.ErrInternal}
	svc := NewMatchService(store, architects, users, notifier)

	m, err := svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusPending, m.Status)
}

func TestRespondToMatchApprove(t *testing.T) {
	svc, store, _ := newMatchFixture()
	m, err := svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.NoError(t, err)

	resolved, err := svc.RespondToMatch(context.Background(), m.ID, "arch-1", true)
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusApproved, resolved.Status)

	stored, err := store.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusApproved, stored.Status)
}

func TestRespondToMatchNotFound(t *testing.T) {
	svc, _, _ := newMatchFixture()
	_, err := svc.RespondToMatch(context.Background(), "missing", "arch-1", true)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestRespondToMatchForbidden(t *testing.T) {
	svc, _, _ := newMatchFixture()
	m, err := svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.NoError(t, err)

	_, err = svc.RespondToMatch(context.Background(), m.ID, "arch-2", true)
	require.ErrorIs(t, err, appErr.ErrForbidden)
}

func TestRespondToMatchTerminalStateIsFinal(t *testing.T) {
	svc, store, _ := newMatchFixture()
	m, err := svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.NoError(t, err)

	_, err = svc.RespondToMatch(context.Background(), m.ID, "arch-1", false)
	require.NoError(t, err)

	_, err = svc.RespondToMatch(context.Background(), m.ID, "arch-1", true)
	require.ErrorIs(t, err, appErr.ErrConflict)

	stored, err := store.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusDeclined, stored.Status)
}

func TestListPending(t *testing.T) {
	svc, _, _ := newMatchFixture()
	m, err := svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.NoError(t, err)

	pending, err := svc.ListPending(context.Background(), "arch-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, m.ID, pending[0].ID)
	require.Equal(t, "Alice", pending[0].ClientName)

	_, err = svc.RespondToMatch(context.Background(), m.ID, "arch-1", true)
	require.NoError(t, err)

	pending, err = svc.ListPending(context.Background(), "arch-1")
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestListForClient(t *testing.T) {
	svc, _, _ := newMatchFixture()
	_, err := svc.RequestMatch(context.Background(), "client-1", "arch-1")
	require.NoError(t, err)

	mine, err := svc.ListForClient(context.Background(), "client-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}
