package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history", "history.db")
	s, err := Open(context.Background(), path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesMissingDirectory(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	runs, err := s.RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSaveRun_AssignsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	id, err := s.SaveRun(context.Background(), Run{
		File:         "session.log",
		PrimaryCause: "Communication System Failure",
		RiskLevel:    "high",
		DtcCount:     2,
		ErrorCount:   7,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	runs, err := s.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "session.log", runs[0].File)
	assert.Equal(t, 2, runs[0].DtcCount)
	assert.False(t, runs[0].AnalyzedAt.IsZero())
}

func TestRecentRuns_NewestFirstAndLimited(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.SaveRun(context.Background(), Run{
			File:       "run.log",
			AnalyzedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := s.RecentRuns(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].AnalyzedAt.After(runs[1].AnalyzedAt))
	assert.True(t, runs[1].AnalyzedAt.After(runs[2].AnalyzedAt))
}
