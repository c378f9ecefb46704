package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monsterpet/internal/config"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected options
		wantErr  bool
	}{
		{"No arguments", nil, options{}, false},
		{"Config path", []string{"-config", "/tmp/pet.yaml"}, options{configPath: "/tmp/pet.yaml"}, false},
		{"Serve", []string{"-serve"}, options{serve: true}, false},
		{"Serve with address", []string{"-serve", "-addr", ":9999"}, options{serve: true, addr: ":9999"}, false},
		{"Address without serve", []string{"-addr", ":9999"}, options{}, true},
		{"Unknown flag", []string{"-bogus"}, options{}, true},
		{"Stray argument", []string{"extra"}, options{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOptions(tt.args, io.Discard)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	config.TestConfigDir = dir
	t.Cleanup(func() { config.TestConfigDir = "" })

	path := filepath.Join(dir, "pet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pet_name: Mochi\nserver:\n  addr: \":7000\"\n"), 0644))

	cfg, err := loadConfig(options{configPath: path})
	require.NoError(t, err)
	assert.Equal(t, "Mochi", cfg.PetName)
	assert.Equal(t, ":7000", cfg.Server.Addr)

	cfg, err = loadConfig(options{configPath: path, serve: true, addr: ":7100"})
	require.NoError(t, err)
	assert.Equal(t, ":7100", cfg.Server.Addr)

	// Falls back to the default location
	cfg, err = loadConfig(options{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, filepath.Join(dir, "monsterpet.log"), cfg.Log.File)
}
