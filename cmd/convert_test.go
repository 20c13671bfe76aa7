package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gaurav-prasanna/townpipe/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../core/convert/testdata/oakvale.html"

func resetFlags() {
	flagConfig, flagVerbose = "", false
	flagAll, flagHTML, flagPDF, flagMarkdown, flagJSON = false, false, false, false, false
	flagPersist, flagPublish = false, false
	flagStore, flagDB, flagOutputDir = "", "", ""
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConvertCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "convert", fixture, "--json", "--output_dir", dir)
	require.NoError(t, err, out)

	data, err := os.ReadFile(filepath.Join(dir, "oakvale.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Oakvale"`)
	assert.Contains(t, out, "Oakvale: 3 buildings, 3 inhabitants")
	assert.Contains(t, out, "Written:")
}

func TestConvertCommand_PublishToSQLite(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "towns.db")
	out, err := execute(t, "convert", fixture, "--html", "--publish", "--db", db, "--output_dir", dir)
	require.NoError(t, err, out)

	assert.FileExists(t, filepath.Join(dir, "oakvale.html"))
	assert.FileExists(t, db)
	assert.Contains(t, out, "Published: city")
}

func TestConvertCommand_RejectsNonHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "town.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := execute(t, "convert", path, "--markdown", "--output_dir", t.TempDir())
	assert.Error(t, err)
}

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name    string
		set     func()
		wantErr bool
	}{
		{"no format", func() {}, true},
		{"one format", func() { flagPDF = true }, false},
		{"two formats", func() { flagPDF, flagJSON = true, true }, true},
		{"persist and publish", func() { flagHTML, flagPersist, flagPublish = true, true, true }, true},
		{"db without store mode", func() { flagHTML, flagDB = true, "x.db" }, true},
		{"db with persist", func() { flagHTML, flagDB, flagPersist = true, "x.db", true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			defer resetFlags()
			tt.set()
			err := validateFlags()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_DBFlagSelectsSQLite(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagDB = "towns.db"

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "towns.db", cfg.Store.Path)
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))

	_, err = newLogger(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)

	dev, err := newLogger(config.LogConfig{Level: "loud"}, true)
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(-1))
}
