package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"absviz/internal/absfn"
	"absviz/internal/insight"
	"absviz/internal/logging"
)

// isolateEnv keeps the developer's credentials and log directory out of the
// command tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY", "ABSVIZ_INSIGHT_API_KEY", "ABSVIZ_INSIGHT_ENABLED"} {
		t.Setenv(name, "")
	}
	t.Setenv("ABSVIZ_LOGGING_DIR", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestWriteSamplesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSamples(&buf, absfn.Params{A: -2, H: 3, K: -1}, "json"))

	var got sampleSet
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "f(x) = -2.0|x - 3.0| - 1.0", got.Equation)
	assert.Equal(t, "(3.0, -1.0)", got.Vertex)
	assert.Equal(t, absfn.Params{A: -2, H: 3, K: -1}, got.Params)
	require.Len(t, got.Samples, absfn.SampleCount())
	assert.Equal(t, absfn.DataPoint{X: -15, Y: -37}, got.Samples[0])
	assert.Equal(t, absfn.DataPoint{X: 3, Y: -1}, got.Samples[36])
}

func TestWriteSamplesYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSamples(&buf, absfn.DefaultParams(), "yaml"))

	var got sampleSet
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "f(x) = |x|", got.Equation)
	require.Len(t, got.Samples, absfn.SampleCount())
	assert.Equal(t, 15.0, got.Samples[0].Y)
	assert.Equal(t, 15.0, got.Samples[len(got.Samples)-1].X)
}

func TestWriteSamplesTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSamples(&buf, absfn.DefaultParams(), "table"))

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "f(x) = |x|")
	assert.Contains(t, out, "vertex (0.0, 0.0)")
	assert.Contains(t, out, "-15.00")
	assert.Contains(t, out, "-0.50")
	assert.Contains(t, out, "f(x)")
}

func TestWriteSamplesUnknownFormat(t *testing.T) {
	err := writeSamples(&bytes.Buffer{}, absfn.DefaultParams(), "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
}

func TestSamplesCommand(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "samples", "--format", "json", "--a=-2", "--h=3", "--k=-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"equation": "f(x) = -2.0|x - 3.0| - 1.0"`)
}

func TestRenderCommand(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "render", "--a=-2", "--h=3", "--k=-1", "--width", "40", "--height", "10", "--probe", "36")
	require.NoError(t, err)

	out = ansi.Strip(out)
	assert.Contains(t, out, "f(x) = -2.0|x - 3.0| - 1.0")
	assert.Contains(t, out, "Vertex: (3.0, -1.0)")
	assert.Contains(t, out, "x = 3.0   f(x) = -1.00")
}

func TestRenderCommandRejectsBadInput(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "render", "--width", "3")
	assert.Error(t, err)

	_, err = execute(t, "render", "--probe", "61")
	assert.Error(t, err)

	_, err = execute(t, "render", "--a=NaN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finite")
}

func TestInsightCommandWithoutKey(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "insight", "--a=2")
	require.NoError(t, err)
	assert.Equal(t, insight.NotConfiguredText, strings.TrimSpace(out))
}

func TestInsightCommandDisabledByConfigFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("insight:\n  enabled: false\n"), 0o644))

	out, err := execute(t, "insight", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, insight.DisabledText, strings.TrimSpace(out))
}

func TestInvalidConfigIsAnError(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("insight:\n  temperature: 5\n"), 0o644))

	_, err := execute(t, "insight", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMissingExplicitConfigIsAnError(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "insight", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestInsightOptionsFromConfig(t *testing.T) {
	isolateEnv(t)

	a := &app{v: viper.New()}
	cfg, err := a.loadConfig()
	require.NoError(t, err)

	assert.Equal(t, insight.DefaultOptions(), insightOptions(cfg.Insight))
}

func TestLogInsightErrorLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")

	logInsightError(logger, nil)
	assert.Empty(t, buf.String())

	logInsightError(logger, insight.ErrNotConfigured)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.NotContains(t, buf.String(), `"level":"ERROR"`)

	buf.Reset()
	logInsightError(logger, fmt.Errorf("gemini generate content: %w", errors.New("boom")))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "boom")
}
