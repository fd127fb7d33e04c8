package app

import (
	"strings"
	"testing"
)

func TestTraceStatement(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "empty", query: "   ", want: ""},
		{
			name:  "collapses whitespace",
			query: "SELECT id\n\tFROM players\n  ORDER BY rank",
			want:  "SELECT id FROM players ORDER BY rank",
		},
		{
			name:  "masks literals",
			query: "SELECT count(*) FROM pg_stat_activity WHERE application_name = 'tennis_ranking' AND note = 'it''s'",
			want:  "SELECT count(*) FROM pg_stat_activity WHERE application_name = '?' AND note = '?'",
		},
		{
			name:  "drops comments",
			query: "/* health */ SELECT 1 -- ping\n",
			want:  "SELECT 1",
		},
		{
			name:  "keeps placeholders",
			query: "UPDATE players SET rank = $1 WHERE id = $2",
			want:  "UPDATE players SET rank = $1 WHERE id = $2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := traceStatement(tt.query); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTraceStatement_Truncates(t *testing.T) {
	got := traceStatement("SELECT " + strings.Repeat("x, ", 400) + "y FROM players")
	if len(got) != maxTracedStatementLen+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated statement, got len %d", len(got))
	}
}
