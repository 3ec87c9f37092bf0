package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := map[string]any{
		"log":      map[string]any{"level": "error"},
		"database": map[string]any{"type": "sqlite", "path": filepath.Join(dir, "capsync.db")},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSyncCommand(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "sync", "--config", cfg, "--seed", "--preview=false", "--source", "static", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "mode: apply")
	assert.Contains(t, out, "openai/gpt-4o")
	assert.Contains(t, out, "$0.02")

	out, err = execute(t, "sync", "--config", cfg, "--seed=false", "--preview", "--json")
	require.NoError(t, err)
	var report model.SyncReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, model.SyncModePreview, report.Mode)
	assert.Equal(t, 16, report.TotalModels)
	assert.Equal(t, 0, report.UpdatedCount)
	assert.Equal(t, 16, report.UnchangedCount)
}

func TestSyncCommandRejectsScrapeApply(t *testing.T) {
	_, err := execute(t, "sync", "--config", writeConfig(t), "--source", "scrape", "--preview=false", "--allow-scrape-apply=false")
	assert.ErrorContains(t, err, "--allow-scrape-apply")

	_, err = execute(t, "sync", "--config", writeConfig(t), "--source", "web", "--preview")
	assert.ErrorContains(t, err, "unknown source")
}

func TestMappingCommand(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "mapping", "--config", cfg, "--capability", "imageGen")
	require.NoError(t, err)
	assert.Contains(t, out, "google/gemini-3-flash\n")
	assert.NotContains(t, out, "perplexity/sonar")

	out, err = execute(t, "mapping", "--config", cfg, "--capability", "")
	require.NoError(t, err)
	assert.Contains(t, out, "IMAGE GEN")
	assert.Contains(t, out, "anthropic/claude-3.5-haiku")

	_, err = execute(t, "mapping", "--config", cfg, "--capability", "video")
	assert.ErrorContains(t, err, "unknown capability")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: dev")
}
