package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"imgresample/internal/config"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"input_dir": "/data/in",
		"output_dir": "/data/out",
		"width": 640,
		"height": 480,
		"filter": "mitchell",
		"workers": 3
	}`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "/data/in", cfg.InputDir)
	require.Equal(t, "/data/out", cfg.OutputDir)
	require.Equal(t, 640, cfg.Width)
	require.Equal(t, 480, cfg.Height)
	require.Equal(t, "mitchell", cfg.Filter)
	require.Equal(t, 3, cfg.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = config.Load(path)
	require.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	var cfg config.Config
	cfg.Resolve(config.Flags{})

	require.Equal(t, 1.0, cfg.Scale)
	require.Equal(t, "lanczos3", cfg.Filter)
	require.Equal(t, "webp", cfg.Format)
	require.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestResolveFlagOverrides(t *testing.T) {
	cfg := config.Config{
		InputDir: "/from/file",
		Filter:   "bspline",
		Workers:  2,
	}
	cfg.Resolve(config.Flags{
		InputDir:  "/from/flag",
		OutputDir: "/out",
		Width:     100,
		Height:    50,
		Format:    "png",
	})

	require.Equal(t, "/from/flag", cfg.InputDir)
	require.Equal(t, "/out", cfg.OutputDir)
	require.Equal(t, 100, cfg.Width)
	require.Equal(t, 50, cfg.Height)
	require.Equal(t, "bspline", cfg.Filter)
	require.Equal(t, "png", cfg.Format)
	require.Equal(t, 2, cfg.Workers)
	// Explicit dimensions suppress the default scale.
	require.Zero(t, cfg.Scale)
}

func TestValidate(t *testing.T) {
	cfg := config.Config{Width: 100, Height: 100}
	require.NoError(t, cfg.Validate())

	cfg = config.Config{Width: 100}
	require.Error(t, cfg.Validate())

	cfg = config.Config{Scale: -1}
	require.Error(t, cfg.Validate())

	cfg = config.Config{Width: -5, Height: 10}
	require.Error(t, cfg.Validate())
}
