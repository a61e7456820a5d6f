package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kiranshivaraju/brewlog/internal/store"
	"github.com/kiranshivaraju/brewlog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }
func num(v int) *int         { return &v }

func sampleLog() []models.Experiment {
	return []models.Experiment{
		{
			ID: 1741940000000, Date: "2025-03-14", GrindSetting: "Fine", DoseGrams: 18,
			YieldGrams: f64(36.5), BrewTimeSeconds: f64(28), WaterTempCelsius: f64(93),
			PuckCondition: str("Firm and Dry"), TampPressure: "25", ShotType: "Double",
			FilterType: "Single Wall", TasteRating: num(4), Notes: "balanced",
		},
		{
			ID: 1741940060000, Date: "2025-03-14", GrindSetting: "Pre-ground", DoseGrams: 16,
			TampPressure: "20", ShotType: "Double", FilterType: "Dual Wall",
		},
	}
}

func openSQLite(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "brewlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// --- LogStore over SQLite ---

func TestLogStore_LoadMissingIsEmpty(t *testing.T) {
	ls := store.NewLogStore(openSQLite(t))

	log, err := ls.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Empty(t, log)
}

func TestLogStore_RoundTrip(t *testing.T) {
	ls := store.NewLogStore(openSQLite(t))
	ctx := context.Background()
	want := sampleLog()

	require.NoError(t, ls.Save(ctx, want))
	got, err := ls.Load(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLogStore_SaveOverwrites(t *testing.T) {
	ls := store.NewLogStore(openSQLite(t))
	ctx := context.Background()
	log := sampleLog()

	require.NoError(t, ls.Save(ctx, log[:1]))
	require.NoError(t, ls.Save(ctx, log))

	got, err := ls.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLogStore_Clear(t *testing.T) {
	ls := store.NewLogStore(openSQLite(t))
	ctx := context.Background()

	require.NoError(t, ls.Save(ctx, sampleLog()))
	require.NoError(t, ls.Clear(ctx))

	got, err := ls.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Clearing an absent key is fine.
	assert.NoError(t, ls.Clear(ctx))
}

func TestLogStore_MalformedContent(t *testing.T) {
	kv := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, store.LogKey, []byte("{not an array")))

	got, err := store.NewLogStore(kv).Load(ctx)
	assert.ErrorIs(t, err, store.ErrCorruptLog)
	assert.Empty(t, got)
}

func TestLogStore_NullContent(t *testing.T) {
	kv := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, store.LogKey, []byte("null")))

	got, err := store.NewLogStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLogStore_SaveNilWritesEmptyArray(t *testing.T) {
	kv := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.NewLogStore(kv).Save(ctx, nil))
	raw, err := kv.Get(ctx, store.LogKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brewlog.db")
	ctx := context.Background()

	s, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.NewLogStore(s).Save(ctx, sampleLog()))
	require.NoError(t, s.Close())

	s, err = store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := store.NewLogStore(s).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, path, s.Path())
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	_, err := openSQLite(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// --- backend failures ---

type failingKV struct{ err error }

func (f failingKV) Ping(context.Context) error                  { return f.err }
func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(context.Context, string, []byte) error   { return f.err }
func (f failingKV) Delete(context.Context, string) error        { return f.err }
func (f failingKV) Close() error                                { return nil }

func TestLogStore_BackendErrorsWrapped(t *testing.T) {
	boom := errors.New("disk full")
	ls := store.NewLogStore(failingKV{err: boom})
	ctx := context.Background()

	log, err := ls.Load(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, log)

	assert.ErrorIs(t, ls.Save(ctx, sampleLog()), boom)
	assert.ErrorIs(t, ls.Clear(ctx), boom)
	assert.ErrorIs(t, ls.Ping(ctx), boom)
}
