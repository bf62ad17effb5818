package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(dir, "showup.db"))
	t.Setenv("MODEL_PATH", filepath.Join(dir, "noshow_model.json"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATABASE_URL", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	providerID = 0
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
		assert.NotEmpty(t, cmd.Short, cmd.Name())
	}
	for _, want := range []string{"generate", "import", "train", "predict", "stats"} {
		assert.True(t, names[want], want)
	}
}

func TestGenerateImportTrainPredict(t *testing.T) {
	dir := setupEnv(t)
	csvPath := filepath.Join(dir, "sample.csv")

	out, err := run(t, "generate", "--patients", "40", "--appointments", "6", "--seed", "42", "-o", csvPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Generated")
	_, err = os.Stat(csvPath)
	require.NoError(t, err)

	out, err = run(t, "import", csvPath)
	require.NoError(t, err, out)
	var imported struct {
		AppointmentsImported uint     `json:"appointments_imported"`
		PatientsCreated      uint     `json:"patients_created"`
		Errors               []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &imported))
	assert.Positive(t, imported.AppointmentsImported)
	assert.Empty(t, imported.Errors)

	out, err = run(t, "stats")
	require.NoError(t, err, out)
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.EqualValues(t, imported.AppointmentsImported, stats["total_appointments"])

	out, err = run(t, "train")
	require.NoError(t, err, out)
	assert.Contains(t, out, "model_version")

	out, err = run(t, "predict", "--patient", "P001", "--at", "2026-11-02 08:00")
	require.NoError(t, err, out)
	var predicted map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &predicted))
	assert.Equal(t, "P001", predicted["patient_code"])
	assert.NotEmpty(t, predicted["recommendation"])
}

func TestPredict_InvalidTime(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "predict", "--patient", "P001", "--at", "next tuesday")
	assert.ErrorContains(t, err, "invalid --at")
}

func TestImport_RejectsInvalidUTF8(t *testing.T) {
	dir := setupEnv(t)
	csvPath := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("patient_code,appointment_datetime,showed_up\nP\xff1,2026-01-05 09:00:00,true\n"), 0o644))

	_, err := run(t, "import", csvPath)
	assert.ErrorContains(t, err, "not valid UTF-8")

	out, err := run(t, "stats")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"total_patients": 0`)
}
