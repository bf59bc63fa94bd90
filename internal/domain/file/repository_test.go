package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileproxy/internal/database"
)

func setupRepo(t *testing.T) Repository {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Record{}))

	rec := Record{
		ID: "f1", OwnerID: "u1", Kind: KindFile,
		OriginalName: "a.txt", MimeType: "text/plain", Size: 10,
		Provider: "s3", Location: `{"bucket":"b","key":"k"}`,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&rec).Error)

	now := time.Now()
	gone := Record{
		ID: "f2", OwnerID: "u1", Kind: KindFile,
		OriginalName: "b.txt", Provider: "s3", Location: "{}",
		CreatedAt: now, DeletedAt: &now,
	}
	require.NoError(t, db.Create(&gone).Error)

	return NewRepository(db)
}

func TestRepository_GetByID(t *testing.T) {
	repo := setupRepo(t)

	rec, err := repo.GetByID(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.OwnerID)
	assert.Equal(t, "s3", rec.Provider)

	loc, err := rec.LocationMap()
	require.NoError(t, err)
	assert.Equal(t, "b", loc["bucket"])
	assert.Equal(t, "k", loc["key"])
}

func TestRepository_GetByID_Missing(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_GetByID_SoftDeletedHidden(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetByID(context.Background(), "f2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocationMap_Malformed(t *testing.T) {
	rec := Record{Location: "not json"}
	_, err := rec.LocationMap()
	assert.Error(t, err)
}

func TestLocationMap_Empty(t *testing.T) {
	rec := Record{}
	loc, err := rec.LocationMap()
	require.NoError(t, err)
	assert.Empty(t, loc)
}
