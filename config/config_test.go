package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qgrover/gate"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Bench.MinQubits)
	assert.Equal(t, 8, cfg.Bench.MaxQubits)
	assert.Equal(t, "vector", cfg.Bench.Strategy)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qgrover.yaml")
	content := `
bench:
  max_qubits: 6
  trials: 25
  strategy: circuit
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Bench.MinQubits)
	assert.Equal(t, 6, cfg.Bench.MaxQubits)
	assert.Equal(t, 25, cfg.Bench.Trials)
	assert.Equal(t, "circuit", cfg.Bench.Strategy)
	assert.Equal(t, 4, cfg.Bench.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bench: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bench:\n  min_qubits: 9\n  max_qubits: 4\n"), 0644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min", func(c *Config) { c.Bench.MinQubits = 0 }},
		{"too many qubits", func(c *Config) { c.Bench.MaxQubits = 30 }},
		{"no trials", func(c *Config) { c.Bench.Trials = 0 }},
		{"no workers", func(c *Config) { c.Bench.Workers = 0 }},
		{"unknown strategy", func(c *Config) { c.Bench.Strategy = "matrix" }},
		{"dense too large", func(c *Config) {
			c.Bench.Strategy = "dense"
			c.Bench.MaxQubits = gate.MaxDenseQubits + 1
		}},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Bench.LogFile = "trials.jsonl"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
