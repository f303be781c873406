package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paesprep/backend/internal/infrastructure/logging"
	"github.com/paesprep/backend/internal/store"
)

func TestReadBank_YAML(t *testing.T) {
	data, err := readBank("testdata/bank.yaml")
	require.NoError(t, err)

	require.Len(t, data.Subjects, 2)
	assert.Equal(t, "matematica-m1", data.Subjects[0].ID)
	require.Len(t, data.Subjects[0].Topics[0].Questions, 2)
	assert.Equal(t, []string{"3", "5", "7"}, data.Subjects[0].Topics[0].Questions[0].Distractors)
}

func TestReadBank_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.0","subjects":[{"name":"Historia","topics":[]}]}`), 0o600))

	data, err := readBank(path)
	require.NoError(t, err)
	assert.Equal(t, "Historia", data.Subjects[0].Name)
}

func TestReadBank_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := readBank(path)
	assert.Error(t, err)
}

func TestRun_ImportsIntoSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed.db")
	logger, err := logging.New(os.Stderr, "json", "error")
	require.NoError(t, err)

	require.NoError(t, run(logger, options{file: "testdata/bank.yaml", driver: "sqlite", dsn: dbPath}))

	db, err := store.NewSQLite(dbPath)
	require.NoError(t, err)
	defer db.Close()

	refs, err := db.AllQuestionRefs(context.Background())
	require.NoError(t, err)
	assert.Len(t, refs, 3)

	// Same ids are kept, not duplicated.
	require.NoError(t, run(logger, options{file: "testdata/bank.yaml", driver: "sqlite", dsn: dbPath}))
	refs, err = db.AllQuestionRefs(context.Background())
	require.NoError(t, err)
	assert.Len(t, refs, 3)
}

func TestRun_RequiresFile(t *testing.T) {
	logger, err := logging.New(os.Stderr, "json", "error")
	require.NoError(t, err)
	assert.Error(t, run(logger, options{driver: "sqlite", dsn: ":memory:"}))
}

func TestRun_ExportWritesYAML(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "seed.db")
	out := filepath.Join(dir, "export.yml")
	logger, err := logging.New(os.Stderr, "json", "error")
	require.NoError(t, err)

	require.NoError(t, run(logger, options{file: "testdata/bank.yaml", driver: "sqlite", dsn: dbPath}))
	require.NoError(t, run(logger, options{file: out, export: true, driver: "sqlite", dsn: dbPath}))

	data, err := readBank(out)
	require.NoError(t, err)
	require.Len(t, data.Subjects, 2)
	assert.Equal(t, "1.0", data.Version)
}
