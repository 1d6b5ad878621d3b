package reports_test

import (
	"context"
	"testing"

	"github.com/aretw0/viewmig/internal/reports"
	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := reports.NewFileStore(t.TempDir())
	ctx := context.Background()

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrReportNotFound)

		_, err = store.Latest(ctx)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		r := domain.NewReport("20260101_120000-a", "/addons", 16, 17)
		r.Steps = append(r.Steps, domain.StepReport{
			Name:      "views",
			Succeeded: []string{"views/a.xml"},
			Failed:    []domain.Failure{{Path: "views/b.xml", Reason: "malformed literal"}},
		})
		require.NoError(t, store.Save(ctx, r))

		loaded, err := store.Load(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, 17, loaded.To)
		assert.Equal(t, 1, loaded.FailedCount())
		assert.Equal(t, "views/b.xml", loaded.Steps[0].Failed[0].Path)
	})

	t.Run("ListAndLatest", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewReport("20260102_090000-b", "/addons", 17, 18)))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"20260101_120000-a", "20260102_090000-b"}, ids)

		latest, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, 18, latest.To)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "20260101_120000-a"))
		require.NoError(t, store.Delete(ctx, "20260101_120000-a"))
		_, err := store.Load(ctx, "20260101_120000-a")
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("EmptyID", func(t *testing.T) {
		assert.Error(t, store.Save(ctx, &domain.Report{}))
		assert.Error(t, store.Delete(ctx, ""))
	})
}
