package cli

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoGolden(t *testing.T) {
	out, err := execute(t, "demo", "--sorter", "merge", "--search", "binary")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "demo", []byte(out))
}

func TestDemoAlgorithmsAgree(t *testing.T) {
	baseline, err := execute(t, "demo", "--sorter", "merge", "--search", "binary")
	require.NoError(t, err)
	_, baselineBody, _ := strings.Cut(baseline, "\n")

	for _, sorter := range []string{"merge", "quick", "builtin"} {
		for _, search := range []string{"linear", "binary"} {
			t.Run(sorter+"/"+search, func(t *testing.T) {
				out, err := execute(t, "demo", "--sorter", sorter, "--search", search)
				require.NoError(t, err)
				_, body, ok := strings.Cut(out, "\n")
				require.True(t, ok)
				assert.Equal(t, baselineBody, body)
			})
		}
	}
}

func TestDemoUnknownSorter(t *testing.T) {
	_, err := execute(t, "demo", "--sorter", "bogo")
	require.Error(t, err)
}
