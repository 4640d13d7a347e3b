package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guttosm/basket-service/internal/domain/dto"
	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	riceJSON   = `{"id":"rice","name":"Rice","category":"grains","price":1000,"net_quantity":1,"unit":"kg","origin":"national"}`
	greensJSON = `{"id":"greens","name":"Greens","category":"vegetables","price":800,"net_quantity":1,"unit":"kg","origin":"local","labels":["organic","fair-trade"]}`
	priceyJSON = `{"id":"pricey","name":"Pricey","category":"grains","price":1200,"net_quantity":1,"unit":"kg","origin":"national"}`
	storesJSON = `[{"id":"s0","name":"s0","location":{"latitude":0,"longitude":0.01}},{"id":"s2","name":"s2","location":{"latitude":0.01,"longitude":0}},{"id":"s1","name":"s1","location":{"latitude":0.01,"longitude":0.01}}]`
)

// run executes basketctl with args, feeding stdin, and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	out, err := run(t, `{"product":`+greensJSON+`}`, "score")
	require.NoError(t, err)

	var score model.SustainabilityScore
	require.NoError(t, json.Unmarshal([]byte(out), &score))
	assert.Greater(t, score.Overall, 0.0)
	assert.LessOrEqual(t, score.Overall, 100.0)
	assert.Greater(t, score.CarbonFootprintKg, 0.0)
}

func TestScoreCommand_Table(t *testing.T) {
	out, err := run(t, `{"product":`+riceJSON+`}`, "score", "-o", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "OVERALL")
	assert.Contains(t, out, "rice")
}

func TestCompareCommand(t *testing.T) {
	out, err := run(t, `{"first":`+riceJSON+`,"second":`+greensJSON+`}`, "compare")
	require.NoError(t, err)

	var cmp model.ProductComparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.Equal(t, "greens", cmp.Better)
}

func TestOptimizeCommand(t *testing.T) {
	body := `{"budget":5000,"items":[{"product":` + riceJSON + `,"quantity":2},{"product":` + greensJSON + `,"quantity":1}]}`

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			name: "json",
			args: []string{"optimize"},
			check: func(t *testing.T, out string) {
				var resp dto.OptimizeResponse
				require.NoError(t, json.Unmarshal([]byte(out), &resp))
				assert.Equal(t, int64(2800), resp.Selection.Stats.TotalCost)
				assert.Len(t, resp.Lines, 2)
			},
		},
		{
			name: "quick",
			args: []string{"optimize", "--quick"},
			check: func(t *testing.T, out string) {
				var resp dto.OptimizeResponse
				require.NoError(t, json.Unmarshal([]byte(out), &resp))
				assert.Equal(t, 0.4, resp.Weights.Sustainability)
			},
		},
		{
			name: "table",
			args: []string{"optimize", "--output", "table"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "TOTAL")
				assert.Contains(t, out, "28.00")
				assert.Contains(t, out, "22.00")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, body, tt.args...)
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestSubstitutesCommand(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
		wantIDs []string
	}{
		{
			name:    "ranks the pool",
			body:    `{"product":` + riceJSON + `,"pool":[` + greensJSON + `,` + priceyJSON + `]}`,
			wantIDs: []string{"greens"},
		},
		{
			name:    "pool required",
			body:    `{"product":` + riceJSON + `}`,
			wantErr: "pool is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.body, "substitutes", "--locale", "es")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			var results []model.SubstitutionResult
			require.NoError(t, json.Unmarshal([]byte(out), &results))
			ids := make([]string, len(results))
			for i, r := range results {
				ids[i] = r.Candidate.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRouteCommand_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"start":{"latitude":0,"longitude":0},"stores":`+storesJSON+`}`), 0o600))

	out, err := run(t, "", "route", "-f", path)
	require.NoError(t, err)

	var route model.Route
	require.NoError(t, json.Unmarshal([]byte(out), &route))
	assert.Len(t, route.Stores, 3)
	assert.Greater(t, route.TotalDistanceKm, 0.0)

	out, err = run(t, "", "route", "-f", path, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "DISTANCE")
}

func TestImpactCommand(t *testing.T) {
	out, err := run(t, `{"lines":[{"product":`+riceJSON+`,"quantity":2},{"product":`+greensJSON+`,"quantity":1}]}`, "impact")
	require.NoError(t, err)

	var analysis model.BasketAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Equal(t, int64(2800), analysis.TotalCost)
	assert.Equal(t, 3, analysis.TotalItems)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "unknown output format", stdin: `{"product":` + riceJSON + `}`, args: []string{"score", "-o", "yaml"}},
		{name: "malformed json", stdin: `{`, args: []string{"score"}},
		{name: "unknown field", stdin: `{"product":` + riceJSON + `,"extra":1}`, args: []string{"score"}},
		{name: "validation failure", stdin: `{"budget":-1,"items":[]}`, args: []string{"optimize"}},
		{name: "missing file", args: []string{"score", "-f", "/nonexistent/req.json"}},
		{name: "store ids need a catalog", stdin: `{"start":{"latitude":0,"longitude":0},"store_ids":["s1"]}`, args: []string{"route"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{minor: 0, want: "0.00"},
		{minor: 5, want: "0.05"},
		{minor: 2800, want: "28.00"},
		{minor: -1234, want: "-12.34"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, money(tt.minor))
		})
	}
}
