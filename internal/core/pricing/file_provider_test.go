package pricing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseRatesFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    map[string]model.Rate
		wantErr bool
	}{
		{
			name: "yaml",
			file: "rates.yaml",
			content: `
Acme/Widget:
  input: 1.5
  output: 3
openai/gpt-4:
  input: 31
  output: 62
`,
			want: map[string]model.Rate{
				"acme/widget":  {Input: 1.5, Output: 3},
				"openai/gpt-4": {Input: 31, Output: 62},
			},
		},
		{
			name:    "json",
			file:    "rates.json",
			content: `{"Mail/Send": {"input": 0.5, "output": 0}}`,
			want: map[string]model.Rate{
				"mail/send": {Input: 0.5},
			},
		},
		{
			name:    "malformed yaml",
			file:    "rates.yml",
			content: "acme/widget: [",
			wantErr: true,
		},
		{
			name:    "malformed json",
			file:    "rates.json",
			content: "{",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			got, err := ParseRatesFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRatesFileMissing(t *testing.T) {
	_, err := ParseRatesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFileProviderLayersOverDefaults(t *testing.T) {
	path := writeFile(t, "rates.yaml", "openai/gpt-4:\n  input: 1\n  output: 2\nacme/widget:\n  input: 10\n  output: 20\n")
	provider := NewFileProvider(path)
	ctx := context.Background()

	rate, err := provider.GetRate(ctx, "openai/gpt-4")
	require.NoError(t, err)
	assert.Equal(t, model.Rate{Input: 1, Output: 2}, rate)

	rate, err = provider.GetRate(ctx, "anthropic/claude-opus-4")
	require.NoError(t, err)
	assert.Equal(t, model.Rate{Input: 15, Output: 75}, rate)

	_, err = provider.GetRate(ctx, "nobody/nothing")
	assert.True(t, errors.Is(err, ErrRateNotFound))

	all, err := provider.GetAllRates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(defaultRates)+1)
}

func TestFileProviderRefresh(t *testing.T) {
	path := writeFile(t, "rates.yaml", "acme/widget:\n  input: 1\n  output: 1\n")
	provider := NewFileProvider(path)
	ctx := context.Background()

	rate, err := provider.GetRate(ctx, "acme/widget")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate.Input)

	require.NoError(t, os.WriteFile(path, []byte("acme/widget:\n  input: 7\n  output: 1\n"), 0644))
	require.NoError(t, provider.RefreshRates(ctx))

	rate, err = provider.GetRate(ctx, "acme/widget")
	require.NoError(t, err)
	assert.Equal(t, 7.0, rate.Input)
}
