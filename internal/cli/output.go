package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w %q", ErrInvalidFormat, format)
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeStandings prints a rank table.
func writeStandings(w io.Writer, standings []leaderboard.Standing) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tNAME\tSCORE")
	for _, st := range standings {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", st.Rank, st.Name, st.Score)
	}
	return tw.Flush()
}

// joinEntities renders entities as "[A(1), B(2)]".
func joinEntities(entities []model.Entity) string {
	parts := make([]string, len(entities))
	for i, e := range entities {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
