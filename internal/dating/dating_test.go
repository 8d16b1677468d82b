package dating_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
	"github.com/imadgeboyega/xoxo-backend/internal/dating"
	"github.com/imadgeboyega/xoxo-backend/internal/profile"
)

// memoryRepository keeps committed rows in maps. When lockPairs is false it
// does not serialize WithPairTx, which leaves ordering to the service.
type memoryRepository struct {
	lockPairs bool

	mu      sync.Mutex
	pairs   map[string]*sync.Mutex
	swipes  map[[2]string]*dating.Swipe
	matches map[string]*dating.Match
}

func newMemoryRepository(lockPairs bool) *memoryRepository {
	return &memoryRepository{
		lockPairs: lockPairs,
		pairs:     map[string]*sync.Mutex{},
		swipes:    map[[2]string]*dating.Swipe{},
		matches:   map[string]*dating.Match{},
	}
}

func (m *memoryRepository) pairLock(key string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.pairs[key]
	if !ok {
		l = &sync.Mutex{}
		m.pairs[key] = l
	}
	return l
}

func (m *memoryRepository) WithPairTx(_ context.Context, a, b string, fn func(dating.SwipeStore) error) error {
	if m.lockPairs {
		l := m.pairLock(dating.PairKey(a, b))
		l.Lock()
		defer l.Unlock()
	}

	tx := &memoryTx{repo: m}
	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range tx.swipes {
		m.swipes[[2]string{s.SwiperID, s.SwipedID}] = s
	}
	for _, mt := range tx.matches {
		m.matches[dating.PairKey(mt.User1ID, mt.User2ID)] = mt
	}
	return nil
}

func (m *memoryRepository) GetMatch(_ context.Context, id string) (*dating.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mt := range m.matches {
		if mt.ID == id {
			return mt, nil
		}
	}
	return nil, dating.ErrMatchNotFound
}

func (m *memoryRepository) FindMatch(_ context.Context, a, b string) (*dating.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mt, ok := m.matches[dating.PairKey(a, b)]; ok {
		return mt, nil
	}
	return nil, dating.ErrMatchNotFound
}

func (m *memoryRepository) GetUserMatches(_ context.Context, userID string) ([]*dating.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*dating.Match
	for _, mt := range m.matches {
		if mt.HasParticipant(userID) {
			out = append(out, mt)
		}
	}
	return out, nil
}

func (m *memoryRepository) matchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matches)
}

type memoryTx struct {
	repo    *memoryRepository
	swipes  []*dating.Swipe
	matches []*dating.Match
}

func (t *memoryTx) InsertSwipe(_ context.Context, s *dating.Swipe) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if _, ok := t.repo.swipes[[2]string{s.SwiperID, s.SwipedID}]; ok {
		return dating.ErrDuplicateSwipe
	}
	s.CreatedAt = time.Now()
	t.swipes = append(t.swipes, s)
	return nil
}

func (t *memoryTx) HasLiked(_ context.Context, swiperID, swipedID string) (bool, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	s, ok := t.repo.swipes[[2]string{swiperID, swipedID}]
	return ok && s.IsLike, nil
}

func (t *memoryTx) CreateMatch(_ context.Context, a, b string) (*dating.Match, bool, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if mt, ok := t.repo.matches[dating.PairKey(a, b)]; ok {
		return mt, false, nil
	}
	lo, hi := dating.CanonicalPair(a, b)
	mt := &dating.Match{ID: uuid.NewString(), User1ID: lo, User2ID: hi, CreatedAt: time.Now()}
	t.matches = append(t.matches, mt)
	return mt, true, nil
}

type staticProfiles map[string]*profile.Profile

func (s staticProfiles) GetByUserIDs(_ context.Context, ids []string) (map[string]*profile.Profile, error) {
	out := map[string]*profile.Profile{}
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestService_RecordSwipe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()
	svc := dating.NewService(newMemoryRepository(true), staticProfiles{bob: {UserID: bob, Name: "Bob"}}, nil)

	t.Run("it should refuse a self swipe", func(t *testing.T) {
		_, err := svc.RecordSwipe(ctx, alice, alice, true)
		require.ErrorIs(t, err, utils.ErrValidation)
	})

	t.Run("it should refuse an id that is not a uuid", func(t *testing.T) {
		_, err := svc.RecordSwipe(ctx, alice, "42", true)
		require.ErrorIs(t, err, dating.ErrInvalidUserID)
	})

	t.Run("it should not match on a one sided like", func(t *testing.T) {
		res, err := svc.RecordSwipe(ctx, alice, bob, true)
		require.NoError(t, err)
		require.False(t, res.Created)
		require.Empty(t, res.MatchID)
	})

	t.Run("it should reject a second swipe on the same user", func(t *testing.T) {
		_, err := svc.RecordSwipe(ctx, alice, bob, false)
		require.ErrorIs(t, err, utils.ErrConflict)
	})

	t.Run("it should match on the reciprocal like", func(t *testing.T) {
		res, err := svc.RecordSwipe(ctx, bob, alice, true)
		require.NoError(t, err)
		require.True(t, res.Created)
		require.NotEmpty(t, res.MatchID)

		matches, err := svc.GetMatches(ctx, alice)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		require.Equal(t, res.MatchID, matches[0].MatchID)
		require.Equal(t, bob, matches[0].UserID)
		require.Equal(t, "Bob", matches[0].Profile.Name)
	})
}

func TestService_RecordSwipe_Pass(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()
	repo := newMemoryRepository(true)
	svc := dating.NewService(repo, staticProfiles{}, nil)

	_, err := svc.RecordSwipe(ctx, a, b, true)
	require.NoError(t, err)

	res, err := svc.RecordSwipe(ctx, b, a, false)
	require.NoError(t, err)
	require.False(t, res.Created)
	require.Equal(t, 0, repo.matchCount())

	// the pass is stored, so b cannot change their mind
	_, err = svc.RecordSwipe(ctx, b, a, true)
	require.ErrorIs(t, err, dating.ErrDuplicateSwipe)
}

func TestService_RecordSwipe_MatchAlreadyStored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()
	lo, hi := dating.CanonicalPair(a, b)
	existing := &dating.Match{ID: uuid.NewString(), User1ID: lo, User2ID: hi, CreatedAt: time.Now()}

	// the reciprocal swipe committed its match while this call was in flight
	repo := newMemoryRepository(false)
	repo.swipes[[2]string{b, a}] = &dating.Swipe{ID: uuid.NewString(), SwiperID: b, SwipedID: a, IsLike: true}
	repo.matches[dating.PairKey(a, b)] = existing
	svc := dating.NewService(repo, staticProfiles{}, nil)

	t.Run("it should report the stored match instead of none", func(t *testing.T) {
		res, err := svc.RecordSwipe(ctx, a, b, true)
		require.NoError(t, err)
		require.True(t, res.Created)
		require.Equal(t, existing.ID, res.MatchID)
		require.Equal(t, 1, repo.matchCount())
	})
}

func TestService_RecordSwipe_ConcurrentReciprocalLikes(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		repoLocks    bool
		processLocks *dating.PairLocker
	}{
		"serialized by the repository": {repoLocks: true},
		"serialized by the pair locker": {processLocks: dating.NewPairLocker()},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			repo := newMemoryRepository(tc.repoLocks)
			svc := dating.NewService(repo, staticProfiles{}, tc.processLocks)

			const pairs = 50
			for i := 0; i < pairs; i++ {
				a, b := uuid.NewString(), uuid.NewString()

				var (
					wg      sync.WaitGroup
					results [2]*dating.SwipeResult
					errs    [2]error
				)
				wg.Add(2)
				go func() {
					defer wg.Done()
					results[0], errs[0] = svc.RecordSwipe(ctx, a, b, true)
				}()
				go func() {
					defer wg.Done()
					results[1], errs[1] = svc.RecordSwipe(ctx, b, a, true)
				}()
				wg.Wait()

				require.NoError(t, errs[0])
				require.NoError(t, errs[1])
				require.True(t, results[0].Created != results[1].Created, "exactly one call must report the match")

				fromA, err := svc.FindMatch(ctx, a, b)
				require.NoError(t, err)
				fromB, err := svc.FindMatch(ctx, b, a)
				require.NoError(t, err)
				require.Equal(t, fromA.ID, fromB.ID)
			}

			require.Equal(t, pairs, repo.matchCount())
		})
	}
}

func TestPairLocker(t *testing.T) {
	t.Parallel()

	locks := dating.NewPairLocker()
	unlock := locks.Lock("a", "b")

	acquired := make(chan struct{})
	go func() {
		release := locks.Lock("b", "a")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("reversed pair must share the lock")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not released")
	}
}

func TestPostgresRepository_WithPairTx(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := dating.NewPostgresRepository(sqlx.NewDb(db, "postgres"))
	ctx := context.Background()
	a, b := "11111111-1111-1111-1111-111111111111", "22222222-2222-2222-2222-222222222222"

	t.Run("it should absorb a conflicting match insert", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").
			WithArgs(a + ":" + b).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("INSERT INTO matches").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}))
		mock.ExpectQuery("SELECT id, user1_id, user2_id, created_at FROM matches").
			WithArgs(a, b).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user1_id", "user2_id", "created_at"}).
				AddRow("m-1", a, b, time.Now()))
		mock.ExpectCommit()

		err := repo.WithPairTx(ctx, b, a, func(store dating.SwipeStore) error {
			m, created, err := store.CreateMatch(ctx, b, a)
			require.NoError(t, err)
			require.False(t, created)
			require.Equal(t, "m-1", m.ID)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("it should roll back on a duplicate swipe", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("INSERT INTO swipes").WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := repo.WithPairTx(ctx, a, b, func(store dating.SwipeStore) error {
			return store.InsertSwipe(ctx, &dating.Swipe{ID: "s", SwiperID: a, SwipedID: b, IsLike: true})
		})
		require.ErrorIs(t, err, dating.ErrDuplicateSwipe)
	})

	t.Run("it should map an unknown user to not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("INSERT INTO swipes").WillReturnError(&pq.Error{Code: "23503"})
		mock.ExpectRollback()

		err := repo.WithPairTx(ctx, a, b, func(store dating.SwipeStore) error {
			return store.InsertSwipe(ctx, &dating.Swipe{ID: "s", SwiperID: a, SwipedID: b})
		})
		require.ErrorIs(t, err, utils.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
