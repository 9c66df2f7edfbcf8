package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/okian/ladder/internal/compare"
)

const ingestFile = `
- {id: "1", op: add, name: Alice, score: 1500}
- {id: "2", op: add, name: Bob, score: 1800}
- {id: "3", op: add, name: Charlie, score: 1200}
- {id: "4", op: add, name: Diana, score: 1800}
- {id: "5", op: update, name: Alice, score: 1900}
- {id: "1", op: add, name: Alice, score: 1500}
- {id: "6", op: promote, name: Bob}
`

func writeIngestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ingestFile), 0o600))
	return path
}

func TestCompareJSON(t *testing.T) {
	out, err := execute(t, "compare", "--size", "200", "--seed", "3", "--format", "json")
	require.NoError(t, err)

	var results []compare.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 6)
	for _, r := range results {
		assert.Equal(t, 200, r.Players)
		assert.Equal(t, results[0].Matches, r.Matches)
	}
}

func TestCompareText(t *testing.T) {
	out, err := execute(t, "compare", "-n", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "SORTER")
	assert.Contains(t, out, "Quick Sort")
	assert.Contains(t, out, "Linear Search")
}

func TestIngestText(t *testing.T) {
	out, err := execute(t, "ingest", writeIngestFile(t))
	require.NoError(t, err)

	assert.Contains(t, out, "submitted 5, duplicates 1, rejected 1, applied 5, failed 0")
	assert.Contains(t, out, "1     Alice    1900")
	assert.Contains(t, out, "3     Diana    1800")
}

func TestIngestYAML(t *testing.T) {
	out, err := execute(t, "ingest", writeIngestFile(t), "--format", "yaml")
	require.NoError(t, err)

	var report IngestReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, 5, report.Submitted)
	require.Len(t, report.Standings, 4)
	assert.Equal(t, "Alice", report.Standings[0].Name)
	assert.Equal(t, "Charlie", report.Standings[3].Name)
	assert.Equal(t, int64(5), report.Stats.Processed)
}

func TestIngestMissingFile(t *testing.T) {
	_, err := execute(t, "ingest", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadCommands)
}

func TestMonitorDump(t *testing.T) {
	out, err := execute(t, "monitor", "--duration", "20ms", "--dump-metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "sampling 4 tasks")
	assert.Contains(t, out, "cancelled 4 tasks")
	assert.Contains(t, out, "# TYPE ladder_")
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ladder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sorter: quick\nsearch: linear\n"), 0o600))

	out, err := execute(t, "--config", path, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Leaderboard (Quick Sort, Linear Search)")
}

func TestLoadgen(t *testing.T) {
	out, err := execute(t, "loadgen", "--players", "200", "--updates", "100", "--removes", "10", "--submitters", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "generated 310, submitted 310, duplicates 0, failed 0")
	assert.Contains(t, out, "verified 190 standings")
}
