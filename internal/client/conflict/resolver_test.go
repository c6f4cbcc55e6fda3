package conflict

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/shiftkeeper/internal/client/api"
	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/client/storage"
	"github.com/iudanet/shiftkeeper/internal/client/storage/boltdb"
	"github.com/iudanet/shiftkeeper/internal/config"
	"github.com/iudanet/shiftkeeper/internal/models"
)

const owner = "user-1"

type resolverFixture struct {
	resolver *Resolver
	local    *boltdb.Storage
	remote   *remote.StoreMock
	queue    *QueueMock
}

func newResolverFixture(t *testing.T, policy string) *resolverFixture {
	t.Helper()

	db, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "resolver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	remoteStore := &remote.StoreMock{
		UpsertFunc: func(ctx context.Context, record *models.Shift) (*models.Shift, error) {
			stored := record.Clone()
			stored.OriginClientID = "client-1"
			return stored, nil
		},
		DeleteFunc: func(ctx context.Context, id, ownerID string) error {
			return nil
		},
	}
	queue := &QueueMock{
		EnqueueFunc: func(ctx context.Context, userID string, action models.QueueAction, payload *models.Shift) (*models.QueueItem, error) {
			return &models.QueueItem{ID: "q-" + payload.ID, RecordID: payload.ID, Action: action, Payload: payload}, nil
		},
		DiscardPendingFunc: func(ctx context.Context, userID, recordID string, action models.QueueAction) (int, error) {
			return 1, nil
		},
	}

	r := NewResolver(db, remoteStore, queue, policy, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.now = func() time.Time { return base.Add(time.Hour) }

	return &resolverFixture{resolver: r, local: db, remote: remoteStore, queue: queue}
}

func TestResolveAutomatically_VersionMismatchNewestWins(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)

	older := record("s1", base, "old")
	newer := record("s1", base.Add(10*time.Minute), "new")

	res, err := f.resolver.ResolveAutomatically(models.Conflict{
		Kind: models.ConflictVersionMismatch, LocalRecord: newer, RemoteRecord: older,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionKeepLocal, res.Action)
	assert.Equal(t, "new", res.ResolvedRecord.Notes)

	res, err = f.resolver.ResolveAutomatically(models.Conflict{
		Kind: models.ConflictVersionMismatch, LocalRecord: older, RemoteRecord: newer,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionKeepRemote, res.Action)
	assert.Equal(t, "new", res.ResolvedRecord.Notes)
}

func TestResolveAutomatically_ConcurrentEditMerges(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)

	res, err := f.resolver.ResolveAutomatically(models.Conflict{
		Kind:         models.ConflictConcurrentEdit,
		LocalRecord:  record("s1", base.Add(time.Minute), "bring keys"),
		RemoteRecord: record("s1", base, "cover for Alex"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionMerge, res.Action)
	assert.Equal(t, "bring keys"+MergeSeparator+"cover for Alex", res.ResolvedRecord.Notes)
}

func TestResolveAutomatically_DeleteEdit(t *testing.T) {
	edited := record("s1", base.Add(time.Minute), "edited")

	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)
	res, err := f.resolver.ResolveAutomatically(models.Conflict{
		Kind: models.ConflictDeleteEdit, DeletedSide: models.SideRemote, LocalRecord: edited,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionDuplicate, res.Action)
	assert.Equal(t, "edited", res.ResolvedRecord.Notes)

	manual := newResolverFixture(t, config.DeleteEditPolicyManual)
	_, err = manual.resolver.ResolveAutomatically(models.Conflict{
		Kind: models.ConflictDeleteEdit, DeletedSide: models.SideRemote, LocalRecord: edited,
	})
	assert.ErrorIs(t, err, ErrConflictUnresolved)
}

func TestMerge_NoInformationLoss(t *testing.T) {
	now := base.Add(time.Hour)
	tests := []struct {
		name        string
		localNotes  string
		remoteNotes string
		want        string
	}{
		{name: "equal", localNotes: "same", remoteNotes: "same", want: "same"},
		{name: "local empty", localNotes: "", remoteNotes: "remote", want: "remote"},
		{name: "remote empty", localNotes: "local", remoteNotes: "", want: "local"},
		{name: "both differ", localNotes: "a", remoteNotes: "b", want: "a" + MergeSeparator + "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := record("s1", base, tt.localNotes)
			remote := record("s1", base, tt.remoteNotes)

			merged := Merge(local, remote, now)
			assert.Equal(t, tt.want, merged.Notes)
			assert.True(t, strings.Contains(merged.Notes, tt.localNotes))
			assert.True(t, strings.Contains(merged.Notes, tt.remoteNotes))
		})
	}
}

func TestMerge_Fields(t *testing.T) {
	local := record("s1", base, "")
	local.Kind = ""
	local.Date = "2024-05-02"
	remote := record("s1", base, "")
	remote.Kind = models.ShiftKindC
	remote.CreatedAt = base.Add(-time.Hour)

	now := base.Add(time.Hour)
	merged := Merge(local, remote, now)

	assert.Equal(t, models.ShiftKindC, merged.Kind)
	assert.Equal(t, "2024-05-02", merged.Date)
	assert.Equal(t, remote.CreatedAt, merged.CreatedAt)
	assert.Equal(t, now, merged.UpdatedAt)
	// Исходные записи не изменены
	assert.Equal(t, models.ShiftKind(""), local.Kind)
}

func TestApply_MergeWritesBothStores(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)
	ctx := context.Background()

	c := models.Conflict{
		Kind:         models.ConflictConcurrentEdit,
		LocalRecord:  record("s1", base.Add(time.Minute), "a"),
		RemoteRecord: record("s1", base, "b"),
	}
	res, err := f.resolver.ResolveAutomatically(c)
	require.NoError(t, err)
	require.NoError(t, f.resolver.Apply(ctx, c, res, owner))

	require.Len(t, f.remote.UpsertCalls(), 1)
	assert.Equal(t, "a"+MergeSeparator+"b", f.remote.UpsertCalls()[0].Record.Notes)

	stored, err := f.local.GetShift(ctx, owner, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a"+MergeSeparator+"b", stored.Notes)
	assert.Equal(t, "client-1", stored.OriginClientID)
	assert.Empty(t, f.queue.EnqueueCalls())
}

func TestApply_TransientFailureQueuesResolution(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)
	f.remote.UpsertFunc = func(ctx context.Context, record *models.Shift) (*models.Shift, error) {
		return nil, fmt.Errorf("upsert failed after 3 attempts: %w", clientapi.ErrTransient)
	}
	ctx := context.Background()

	c := models.Conflict{
		Kind:         models.ConflictVersionMismatch,
		LocalRecord:  record("s1", base.Add(time.Hour), "local newest"),
		RemoteRecord: record("s1", base, "remote"),
	}
	res, err := f.resolver.ResolveAutomatically(c)
	require.NoError(t, err)
	require.Equal(t, models.ResolutionKeepLocal, res.Action)
	require.NoError(t, f.resolver.Apply(ctx, c, res, owner))

	calls := f.queue.EnqueueCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.QueueActionUpsert, calls[0].Action)
	assert.Equal(t, "local newest", calls[0].Payload.Notes)
}

func TestApply_PermanentFailureSurfaces(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)
	f.remote.UpsertFunc = func(ctx context.Context, record *models.Shift) (*models.Shift, error) {
		return nil, &clientapi.StatusError{StatusCode: 403, Message: "forbidden"}
	}

	c := models.Conflict{
		Kind:         models.ConflictConcurrentEdit,
		LocalRecord:  record("s1", base.Add(time.Minute), "a"),
		RemoteRecord: record("s1", base, "b"),
	}
	res, err := f.resolver.ResolveAutomatically(c)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, f.local.SaveShift(ctx, owner, c.LocalRecord))

	err = f.resolver.Apply(ctx, c, res, owner)
	assert.ErrorIs(t, err, clientapi.ErrPermanent)
	assert.Empty(t, f.queue.EnqueueCalls())

	// Отклоненное слияние не попадает в локальную копию
	stored, err := f.local.GetShift(ctx, owner, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a", stored.Notes)
}

func TestResolveAutomatically_OversizedMergeNeedsManualDecision(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)

	c := models.Conflict{
		Kind:         models.ConflictConcurrentEdit,
		LocalRecord:  record("s1", base.Add(time.Minute), strings.Repeat("a", 3000)),
		RemoteRecord: record("s1", base, strings.Repeat("b", 3000)),
	}

	_, err := f.resolver.ResolveAutomatically(c)
	assert.ErrorIs(t, err, ErrConflictUnresolved)

	_, err = f.resolver.ResolveManually(c, models.ResolutionMerge)
	assert.ErrorIs(t, err, ErrInvalidResolution)

	// Остальные решения доступны
	res, err := f.resolver.ResolveManually(c, models.ResolutionKeepRemote)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("b", 3000), res.ResolvedRecord.Notes)
}

func TestMerge_AlreadyMergedIsStable(t *testing.T) {
	now := base.Add(time.Hour)
	remote := record("s1", base, "y")

	once := Merge(record("s1", base.Add(time.Minute), "x"), remote, now)
	twice := Merge(once, remote, now.Add(time.Minute))
	assert.Equal(t, "x"+MergeSeparator+"y", twice.Notes)

	// Удаленная сторона уже содержит слияние
	fromRemote := Merge(record("s1", base, "x"), record("s1", base, once.Notes), now)
	assert.Equal(t, once.Notes, fromRemote.Notes)
}

func TestApply_TransientMergeSavedLocallyAndQueued(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)
	f.remote.UpsertFunc = func(ctx context.Context, record *models.Shift) (*models.Shift, error) {
		return nil, fmt.Errorf("upsert failed after 3 attempts: %w", clientapi.ErrTransient)
	}
	ctx := context.Background()

	c := models.Conflict{
		Kind:         models.ConflictConcurrentEdit,
		LocalRecord:  record("s1", base.Add(time.Minute), "x"),
		RemoteRecord: record("s1", base, "y"),
	}
	res, err := f.resolver.ResolveAutomatically(c)
	require.NoError(t, err)
	require.NoError(t, f.resolver.Apply(ctx, c, res, owner))

	stored, err := f.local.GetShift(ctx, owner, "s1")
	require.NoError(t, err)
	assert.Equal(t, "x"+MergeSeparator+"y", stored.Notes)
	require.Len(t, f.queue.EnqueueCalls(), 1)
	assert.Equal(t, stored.Notes, f.queue.EnqueueCalls()[0].Payload.Notes)
}

func TestApply_KeepRemoteRefreshesLocal(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)
	ctx := context.Background()
	require.NoError(t, f.local.SaveShift(ctx, owner, record("s1", base, "stale")))

	c := models.Conflict{
		Kind:         models.ConflictVersionMismatch,
		LocalRecord:  record("s1", base, "stale"),
		RemoteRecord: record("s1", base.Add(time.Hour), "fresh"),
	}
	res, err := f.resolver.ResolveAutomatically(c)
	require.NoError(t, err)
	require.NoError(t, f.resolver.Apply(ctx, c, res, owner))

	stored, err := f.local.GetShift(ctx, owner, "s1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", stored.Notes)
	assert.Empty(t, f.remote.UpsertCalls())
	assert.Len(t, f.queue.DiscardPendingCalls(), 1)
}

func TestApply_DuplicateLocalDeleteRemoteEdit(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)
	ctx := context.Background()

	c := models.Conflict{
		Kind:         models.ConflictDeleteEdit,
		DeletedSide:  models.SideLocal,
		LocalRecord:  record("s1", base, "snapshot"),
		RemoteRecord: record("s1", base.Add(time.Hour), "edited elsewhere"),
	}
	res, err := f.resolver.ResolveAutomatically(c)
	require.NoError(t, err)
	require.NoError(t, f.resolver.Apply(ctx, c, res, owner))

	// Правка выжила локально, отложенное удаление отброшено
	stored, err := f.local.GetShift(ctx, owner, "s1")
	require.NoError(t, err)
	assert.Equal(t, "edited elsewhere", stored.Notes)

	discards := f.queue.DiscardPendingCalls()
	require.Len(t, discards, 1)
	assert.Equal(t, models.QueueActionDelete, discards[0].Action)
	assert.Empty(t, f.remote.UpsertCalls())
}

func TestApply_DuplicateRemoteDeleteLocalEdit(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyEditWins)
	ctx := context.Background()

	c := models.Conflict{
		Kind:        models.ConflictDeleteEdit,
		DeletedSide: models.SideRemote,
		LocalRecord: record("s1", base.Add(time.Hour), "edited offline"),
	}
	res, err := f.resolver.ResolveAutomatically(c)
	require.NoError(t, err)
	require.NoError(t, f.resolver.Apply(ctx, c, res, owner))

	// Запись восстановлена на сервере под тем же id
	calls := f.remote.UpsertCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "s1", calls[0].Record.ID)
	assert.Equal(t, "edited offline", calls[0].Record.Notes)
}

func TestResolveManually(t *testing.T) {
	f := newResolverFixture(t, config.DeleteEditPolicyManual)
	ctx := context.Background()
	require.NoError(t, f.local.SaveShift(ctx, owner, record("s1", base.Add(time.Hour), "edited offline")))

	c := models.Conflict{
		Kind:        models.ConflictDeleteEdit,
		DeletedSide: models.SideRemote,
		LocalRecord: record("s1", base.Add(time.Hour), "edited offline"),
	}

	// Пользователь подтверждает удаление на сервере
	res, err := f.resolver.ResolveManually(c, models.ResolutionKeepRemote)
	require.NoError(t, err)
	assert.Nil(t, res.ResolvedRecord)
	require.NoError(t, f.resolver.Apply(ctx, c, res, owner))

	_, err = f.local.GetShift(ctx, owner, "s1")
	assert.ErrorIs(t, err, storage.ErrShiftNotFound)

	_, err = f.resolver.ResolveManually(c, models.ResolutionMerge)
	assert.ErrorIs(t, err, ErrInvalidResolution)

	_, err = f.resolver.ResolveManually(models.Conflict{
		Kind:         models.ConflictConcurrentEdit,
		LocalRecord:  record("s1", base, "a"),
		RemoteRecord: record("s1", base, "b"),
	}, models.ResolutionDuplicate)
	assert.ErrorIs(t, err, ErrInvalidResolution)
}
