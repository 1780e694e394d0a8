package formatter

import (
	"bytes"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRates() []RateEntry {
	return []RateEntry{
		NewRateEntry("anthropic/claude-opus-4", model.Rate{Input: 15, Output: 75}),
		NewRateEntry("openai/gpt-4", model.Rate{Input: 30, Output: 60}),
	}
}

func TestWriteRatesTable(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteRates(buf, "table", sampleRates()))

	out := buf.String()
	assert.Contains(t, out, "Input $/M")
	assert.Contains(t, out, "30.0000")
	assert.NotContains(t, out, "Total")
}

func TestWriteRatesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteRates(buf, "json", sampleRates()))

	var decoded []RateEntry
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleRates(), decoded)
}

func TestWriteRatesCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteRates(buf, "csv", sampleRates()))
	assert.Equal(t, "key,input_per_million,output_per_million\nanthropic/claude-opus-4,15,75\nopenai/gpt-4,30,60\n", buf.String())
}

func TestWriteRatesUnknownFormat(t *testing.T) {
	assert.Error(t, WriteRates(&bytes.Buffer{}, "yaml", nil))
}
