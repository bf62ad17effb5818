package sampledata

import (
	"bytes"
	"context"
	"testing"
	"time"

	"showup-server/internal/importer"
	"showup-server/internal/repository"
	"showup-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func TestGenerate_Deterministic(t *testing.T) {
	opts := Options{Patients: 20, AppointmentsPerPatient: 5, Seed: 7, Now: fixedNow}
	assert.Equal(t, Generate(opts), Generate(opts))

	opts.Seed = 8
	assert.NotEqual(t, Generate(Options{Patients: 20, AppointmentsPerPatient: 5, Seed: 7, Now: fixedNow}), Generate(opts))
}

func TestGenerate_Shape(t *testing.T) {
	opts := Options{Patients: 30, AppointmentsPerPatient: 4, Seed: 1, Now: fixedNow}
	appointments := Generate(opts)

	require.NotEmpty(t, appointments)
	assert.LessOrEqual(t, len(appointments), 120)
	earliest := fixedNow.AddDate(0, 0, -historyDays-1)
	for _, a := range appointments {
		assert.NotEqual(t, time.Saturday, a.At.Weekday())
		assert.NotEqual(t, time.Sunday, a.At.Weekday())
		assert.Contains(t, bookableHours, a.At.Hour())
		assert.Contains(t, appointmentTypes, a.AppointmentType)
		assert.True(t, a.At.After(earliest), a.At)
		assert.Regexp(t, `^P\d{3}$`, a.PatientCode)
	}
}

func TestShowProbability(t *testing.T) {
	mondayEarly := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	fridayLate := time.Date(2026, 1, 9, 15, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 1, 7, 11, 0, 0, 0, time.UTC)

	assert.InDelta(t, 0.60, showProbability(0.85, mondayEarly, false), 1e-9)
	assert.InDelta(t, 0.40, showProbability(0.85, mondayEarly, true), 1e-9)
	assert.InDelta(t, 1.0, showProbability(0.95, fridayLate, false), 1e-9)
	assert.InDelta(t, 0.0, showProbability(0.30, mondayEarly, true), 1e-9)
	assert.InDelta(t, 0.60, showProbability(0.60, wednesday, false), 1e-9)
}

func TestWriteCSV_ImportsCleanly(t *testing.T) {
	appointments := Generate(Options{Patients: 10, AppointmentsPerPatient: 4, Seed: 3, Now: fixedNow})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, appointments))

	rows, err := importer.ReadRows(&buf)
	require.NoError(t, err)
	require.Len(t, rows, len(appointments))

	repo := repository.NewGormRepository(testutil.NewDB(t))
	_, err = repo.EnsureProvider(context.Background(), 1)
	require.NoError(t, err)
	result, err := importer.NewEngine(repo).ImportBatch(context.Background(), 1, rows)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, uint(len(appointments)), result.ImportedCount)

	stats, err := repo.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(Summarize(appointments).NoShows), stats.TotalNoShows)
}
