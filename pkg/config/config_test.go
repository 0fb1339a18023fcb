package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/melodygen/pkg/generator"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("MELODYGEN_OUTPUT_DIR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MELODYGEN_OUTPUT_DIR", "/tmp/midi")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/tmp/midi", cfg.OutputDir)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	t.Setenv("PORT", "not-a-port")
	assert.Equal(t, 8080, Load().Port)
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("MELODYGEN_OUTPUT_DIR", "")
	os.Unsetenv("MELODYGEN_OUTPUT_DIR")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MELODYGEN_OUTPUT_DIR=from-dotenv\n"), 0644))
	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-dotenv", Load().OutputDir)

	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestPresetRoundTrip(t *testing.T) {
	seed := uint64(99)
	want := generator.Params{
		Kind:            generator.KindChords,
		RootNote:        "D",
		Mode:            "dorian",
		ProgressionType: "jazz_2_5_1",
		BPM:             96,
		Bars:            8,
		UseHumanization: true,
		Seed:            &seed,
		Extension:       "seventh",
		Strum:           "down_med",
	}
	path := filepath.Join(t.TempDir(), "presets", "jazz.yaml")
	require.NoError(t, SavePreset(path, want))

	got, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPresetFormats(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "melody.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("kind: melody\nroot_note: A\nmode: minor\nbpm: 140\nnotes: 16\nuse_swing: true\nswing_type: light\n"), 0644))
	p, err := LoadPreset(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, generator.KindMelody, p.Kind)
	assert.Equal(t, "A", p.RootNote)
	assert.Equal(t, 140, p.BPM)
	assert.Equal(t, 16, p.Notes)
	assert.True(t, p.UseSwing)
	assert.Equal(t, "light", p.SwingType)

	jsonPath := filepath.Join(dir, "chords.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"kind":"chords","progression_type":"blues","bpm":80}`), 0644))
	p, err = LoadPreset(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, generator.KindChords, p.Kind)
	assert.Equal(t, "blues", p.ProgressionType)

	_, err = LoadPreset(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("bpm: [1, 2"), 0644))
	_, err = LoadPreset(badPath)
	assert.Error(t, err)
}
