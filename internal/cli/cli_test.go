package cli

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincenzocorso/forest-fire-simulation/internal/sims/wildfire"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func grid(n int, f func(r, c int) string) string {
	var b strings.Builder
	for r := 0; r < n; r++ {
		row := make([]string, n)
		for c := range row {
			row[c] = f(r, c)
		}
		b.WriteString(strings.Join(row, ",") + "\n")
	}
	return b.String()
}

// scenario writes a flat 7×7 map igniting the centre, with a plus-shaped
// burned mask.
func scenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"spread_component.csv": grid(7, func(int, int) string { return "1" }),
		"elevation.csv":        grid(7, func(int, int) string { return "0" }),
		"burned_mask.csv": grid(7, func(r, c int) string {
			if (r == 3 && c >= 2 && c <= 4) || (c == 3 && r >= 2 && r <= 4) {
				return "1"
			}
			return "0"
		}),
		"wind.csv":            "20,10,90\n20,10,90\n",
		"starting_points.csv": "3,3,0\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func readCSV(t *testing.T, s string) [][]string {
	t.Helper()
	recs, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "firesim v"+Version+"\n", out)
}

func TestRunSynthetic(t *testing.T) {
	out, err := execute(t, "run", "--width", "20", "--height", "16", "--steps", "3")
	require.NoError(t, err)

	recs := readCSV(t, out)
	require.Len(t, recs, 4)
	assert.Equal(t, metricsHeader, recs[0])
	assert.Equal(t, "1", recs[1][0])
	assert.Equal(t, "", recs[1][4], "no mask, no score")
}

func TestRunScenarioScores(t *testing.T) {
	dir := scenario(t)
	outPath := filepath.Join(t.TempDir(), "metrics.csv")
	out, err := execute(t, "run", "-d", dir, "-r", "base", "-n", "1", "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	recs := readCSV(t, string(b))
	require.Len(t, recs, 2)
	// Centre plus four neighbours burned, all inside the mask.
	assert.Equal(t, []string{"1", "0", "4", "5", "1.000000", "1.000000", "1.000000"}, recs[1])
}

func TestRunUnknownRule(t *testing.T) {
	_, err := execute(t, "run", "--width", "8", "--height", "8", "--rule", "nope")
	assert.ErrorIs(t, err, wildfire.ErrUnknownRule)
}

func TestRunRejectsBadSteps(t *testing.T) {
	_, err := execute(t, "run", "--steps", "0")
	assert.ErrorContains(t, err, "steps must be positive")
}

func TestConfigFileAndEnvironment(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "firesim.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("rule = \"base\"\nsteps = 2\nwidth = 10\nheight = 10\n"), 0o644))

	out, err := execute(t, "run", "--config", cfgPath)
	require.NoError(t, err)
	assert.Len(t, readCSV(t, out), 3)

	t.Setenv("FIRESIM_STEPS", "4")
	out, err = execute(t, "run", "--width", "10", "--height", "10")
	require.NoError(t, err)
	assert.Len(t, readCSV(t, out), 5)
}

func TestBadLogLevel(t *testing.T) {
	root := NewRoot()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"version", "--log-level", "loud"})
	assert.Error(t, root.Execute())
}

func TestParams(t *testing.T) {
	out, err := execute(t, "params", "--width", "12", "--height", "9", "--rule", "base", "--c1", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "World")
	assert.Regexp(t, `rule\s+Propagation rule\s+base`, out)
	assert.Regexp(t, `w\s+Width\s+12`, out)
	assert.Regexp(t, `c1\s+Wind speed weight\s+0.5`, out)
}

func TestSweepAppendsLog(t *testing.T) {
	dir := scenario(t)
	logPath := filepath.Join(t.TempDir(), "sweep.log")
	args := []string{"sweep", "-d", dir, "-n", "3", "-j", "2",
		"--alphas", "45", "--c1s", "0.25", "--c2s", "0.75,1.5", "--logfile", logPath}

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "rank")
	assert.Contains(t, out, "alpha")

	_, err = execute(t, args...)
	require.NoError(t, err)
	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Len(t, lines, 4, "two runs of two points each")
	assert.Contains(t, lines[0], "alpha=45 c1=0.25 c2=0.75")
	assert.Contains(t, lines[1], "alpha=45 c1=0.25 c2=1.5")
}

func TestSweepNeedsMask(t *testing.T) {
	_, err := execute(t, "sweep", "--width", "8", "--height", "8", "--alphas", "45", "--c1s", "0.25", "--c2s", "0.75",
		"--logfile", filepath.Join(t.TempDir(), "sweep.log"))
	assert.ErrorContains(t, err, "no burned mask")
}

func TestSweepRejectsBadValues(t *testing.T) {
	_, err := execute(t, "sweep", "--alphas", "steep")
	assert.ErrorContains(t, err, "alphas")
}
