package achievements

import (
	"context"
	"errors"
	"testing"

	"github.com/quizlingo/quizlingo-api/internal/models"
	"github.com/quizlingo/quizlingo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingNotifier remembers every announced achievement name.
type recordingNotifier struct {
	announced []string
	fail      bool
}

func (n *recordingNotifier) AnnounceAchievement(_ models.User, a models.Achievement) error {
	if n.fail {
		return errors.New("channel unavailable")
	}
	n.announced = append(n.announced, a.Name)
	return nil
}

type testEnv struct {
	engine *Engine
	store  store.Store
	db     *gorm.DB
}

func newTestEngine(t *testing.T, n *recordingNotifier) testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Achievement{}, &models.AchievementGrant{}))

	st := store.NewGormStore(db)
	if n == nil {
		return testEnv{engine: NewEngine(st, nil), store: st, db: db}
	}
	return testEnv{engine: NewEngine(st, n), store: st, db: db}
}

// seedCatalog inserts reference data directly; the catalog has no write op
// on the store.
func seedCatalog(t *testing.T, db *gorm.DB, defs ...models.Achievement) {
	t.Helper()
	for i := range defs {
		require.NoError(t, db.Create(&defs[i]).Error)
	}
}

func seedUser(t *testing.T, st store.Store, user *models.User) *models.User {
	t.Helper()
	_, err := st.CreateUser(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestAwardGrantsOnlyQualifyingAchievements(t *testing.T) {
	n := &recordingNotifier{}
	env := newTestEngine(t, n)
	ctx := context.Background()

	seedCatalog(t, env.db,
		models.Achievement{Name: "10 Day Streak", Metric: models.MetricStreak, Threshold: 10},
		models.Achievement{Name: "10 Quizzes Completed", Metric: models.MetricQuizzesCompleted, Threshold: 10},
	)
	user := seedUser(t, env.store, &models.User{Username: "alice", Email: "a@example.com", Streak: 15, QuizzesCompleted: 5})

	require.NoError(t, env.engine.Award(ctx, user))

	grants, err := env.store.GetUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "10 Day Streak", grants[0].Achievement.Name)
	assert.Equal(t, []string{"10 Day Streak"}, n.announced)
}

func TestAwardIsIdempotent(t *testing.T) {
	env := newTestEngine(t, nil)
	ctx := context.Background()

	seedCatalog(t, env.db,
		models.Achievement{Name: "10 Day Streak", Metric: models.MetricStreak, Threshold: 10},
		models.Achievement{Name: "50 Day Streak", Metric: models.MetricStreak, Threshold: 50},
	)
	user := seedUser(t, env.store, &models.User{Username: "bob", Email: "b@example.com", Streak: 60})

	require.NoError(t, env.engine.Award(ctx, user))
	require.NoError(t, env.engine.Award(ctx, user), "second sweep with unchanged metrics is a no-op")

	grants, err := env.store.GetUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 2)
}

// staleGrantsStore reports no held grants, as when a concurrent sweep grants
// between this sweep's read and its insert.
type staleGrantsStore struct {
	store.Store
}

func (s *staleGrantsStore) GetUserAchievements(context.Context, uint) ([]models.AchievementGrant, error) {
	return nil, nil
}

func TestAwardToleratesRacingGrant(t *testing.T) {
	env := newTestEngine(t, nil)
	ctx := context.Background()

	seedCatalog(t, env.db,
		models.Achievement{Name: "10 Day Streak", Metric: models.MetricStreak, Threshold: 10},
	)
	user := seedUser(t, env.store, &models.User{Username: "erin", Email: "e@example.com", Streak: 10})

	require.NoError(t, env.engine.Award(ctx, user))

	// This sweep's read missed the grant above, so its insert collides with
	// the unique index; the collision means already-held, not failure.
	racing := NewEngine(&staleGrantsStore{Store: env.store}, nil)
	require.NoError(t, racing.Award(ctx, user))

	grants, err := env.store.GetUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}

func TestAwardThresholdBoundary(t *testing.T) {
	env := newTestEngine(t, nil)
	ctx := context.Background()

	seedCatalog(t, env.db,
		models.Achievement{Name: "50 Day Streak", Metric: models.MetricStreak, Threshold: 50},
	)

	below := seedUser(t, env.store, &models.User{Username: "below", Email: "below@example.com", Streak: 49})
	require.NoError(t, env.engine.Award(ctx, below))
	grants, err := env.store.GetUserAchievements(ctx, below.ID)
	require.NoError(t, err)
	assert.Empty(t, grants, "49 does not reach a 50 threshold")

	exact := seedUser(t, env.store, &models.User{Username: "exact", Email: "exact@example.com", Streak: 50})
	require.NoError(t, env.engine.Award(ctx, exact))
	grants, err = env.store.GetUserAchievements(ctx, exact.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 1, "a metric equal to the threshold qualifies")
}

func TestAwardSkipsUnknownMetrics(t *testing.T) {
	env := newTestEngine(t, nil)
	ctx := context.Background()

	seedCatalog(t, env.db,
		models.Achievement{Name: "Polyglot", Metric: "languages_mastered", Threshold: 0},
	)
	user := seedUser(t, env.store, &models.User{Username: "carol", Email: "c@example.com", Streak: 1000})

	require.NoError(t, env.engine.Award(ctx, user))

	grants, err := env.store.GetUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, grants, "unimplemented categories are never granted")
}

func TestAwardNilUser(t *testing.T) {
	env := newTestEngine(t, nil)
	err := env.engine.Award(context.Background(), nil)
	assert.ErrorIs(t, err, store.ErrNilUser)
}

func TestAwardSurvivesNotifierFailure(t *testing.T) {
	n := &recordingNotifier{fail: true}
	env := newTestEngine(t, n)
	ctx := context.Background()

	seedCatalog(t, env.db,
		models.Achievement{Name: "10 Day Streak", Metric: models.MetricStreak, Threshold: 10},
	)
	user := seedUser(t, env.store, &models.User{Username: "dave", Email: "d@example.com", Streak: 10})

	require.NoError(t, env.engine.Award(ctx, user), "announcement failures must not fail the grant")

	grants, err := env.store.GetUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}
