package records_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/internal/adapters/records"
	"go.trai.ch/scribe/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), ".scribe", "builds.json")

	store, err := records.NewStore(storePath)
	require.NoError(t, err)

	rec := domain.BuildRecord{
		ID:        "b-1",
		Project:   "pip",
		Version:   "latest",
		Success:   true,
		Formats:   []domain.Format{domain.FormatHTML},
		Timestamp: time.Now(),
	}
	require.NoError(t, store.Put(rec))

	got, err := store.Get("b-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pip", got.Project)
	assert.True(t, got.Success)
}

func TestStore_GetMissing(t *testing.T) {
	store, err := records.NewStore(filepath.Join(t.TempDir(), "builds.json"))
	require.NoError(t, err)

	got, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_PutWithoutID(t *testing.T) {
	store, err := records.NewStore(filepath.Join(t.TempDir(), "builds.json"))
	require.NoError(t, err)

	err = store.Put(domain.BuildRecord{Project: "pip"})
	assert.ErrorIs(t, err, domain.ErrStoreWriteFailed)
}

func TestStore_Persistence(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "builds.json")

	store1, err := records.NewStore(storePath)
	require.NoError(t, err)
	require.NoError(t, store1.Put(domain.BuildRecord{ID: "b-2", Project: "pip", Version: "stable", Output: "sphinx-build\nok"}))

	store2, err := records.NewStore(storePath)
	require.NoError(t, err)

	got, err := store2.Get("b-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sphinx-build\nok", got.Output)
}

func TestStore_Latest(t *testing.T) {
	store, err := records.NewStore(filepath.Join(t.TempDir(), "builds.json"))
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(domain.BuildRecord{ID: "a", Project: "pip", Version: "latest", Timestamp: base}))
	require.NoError(t, store.Put(domain.BuildRecord{ID: "b", Project: "pip", Version: "latest", Timestamp: base.Add(time.Hour)}))
	require.NoError(t, store.Put(domain.BuildRecord{ID: "c", Project: "pip", Version: "stable", Timestamp: base.Add(2 * time.Hour)}))

	got, err := store.Latest("pip", "latest")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)

	none, err := store.Latest("pip", "v1.0")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestStore_Retention(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "builds.json")
	store, err := records.NewStore(storePath, records.WithRetention(2))
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Put(domain.BuildRecord{
			ID: id, Project: "pip", Version: "latest", Timestamp: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, store.Put(domain.BuildRecord{ID: "s", Project: "pip", Version: "stable", Timestamp: base}))

	reopened, err := records.NewStore(storePath)
	require.NoError(t, err)

	for _, id := range []string{"a", "b"} {
		got, err := reopened.Get(id)
		require.NoError(t, err)
		assert.Nil(t, got, id)
	}
	for _, id := range []string{"c", "d", "s"} {
		got, err := reopened.Get(id)
		require.NoError(t, err)
		assert.NotNil(t, got, id)
	}

	latest, err := reopened.Latest("pip", "latest")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "d", latest.ID)
}

func TestStore_CorruptFile(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "builds.json")
	require.NoError(t, os.WriteFile(storePath, []byte("{not json"), 0o600))

	_, err := records.NewStore(storePath)
	assert.ErrorIs(t, err, domain.ErrStoreReadFailed)
}

func TestStore_EmptyFile(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "builds.json")
	require.NoError(t, os.WriteFile(storePath, nil, 0o600))

	_, err := records.NewStore(storePath)
	assert.NoError(t, err)
}

func TestStore_OmitZero(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "builds.json")

	store, err := records.NewStore(storePath)
	require.NoError(t, err)
	require.NoError(t, store.Put(domain.BuildRecord{ID: "zero", Project: "pip"}))

	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(storePath)
	require.NoError(t, err)

	jsonStr := string(content)
	assert.False(t, strings.Contains(jsonStr, "artifacts"), "zero artifacts must be omitted")
	assert.False(t, strings.Contains(jsonStr, "timestamp"), "zero timestamp must be omitted")
	assert.Contains(t, jsonStr, `"success": false`)
	assert.Contains(t, jsonStr, `"project": "pip"`)
}

func TestOpener_Open(t *testing.T) {
	store, err := records.NewOpener().Open(filepath.Join(t.TempDir(), "builds.json"))
	require.NoError(t, err)
	require.NoError(t, store.Put(domain.BuildRecord{ID: "x"}))
}
