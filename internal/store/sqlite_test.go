package store

import (
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestSaveAndRecentRuns(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "app.db"))
	assert.Equal(t, err, nil)
	defer s.Close()

	runs := []RunRecord{
		{Timestamp: "2026-08-24 07:30:00", Success: false, Error: "no data"},
		{Timestamp: "2026-08-25 07:30:00", Success: true, EmailSent: true, ChatSent: true, Briefing: "markets were calm"},
		{Timestamp: "2026-08-26 07:30:00", Success: true, EmailSent: false, ChatSent: true, Briefing: "markets moved"},
	}
	for _, r := range runs {
		assert.Equal(t, s.SaveRun(r), nil)
	}

	got, err := s.RecentRuns(2)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].Timestamp, "2026-08-26 07:30:00")
	assert.Equal(t, got[0].EmailSent, false)
	assert.Equal(t, got[0].ChatSent, true)
	assert.Equal(t, got[1].Briefing, "markets were calm")

	all, err := s.RecentRuns(0)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(all), 3)
	assert.Equal(t, all[2].Success, false)
	assert.Equal(t, all[2].Error, "no data")
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	assert.Equal(t, s.SaveRun(RunRecord{}), nil)
	assert.Equal(t, s.Close(), nil)

	_, err := s.RecentRuns(10)
	assert.NotEqual(t, err, nil)
}
