package benchmarks

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/buger/jsonparser"

	"github.com/clarete/peg"
)

// BenchmarkParsers compares JSON parsing performance across libraries.
//
// What each parser does with the input:
//   - encoding_json: decodes into an `any`
//   - buger_jsonparser: iterates values without building a tree
//   - peg: validates only, no actions and no control besides errors
//   - peg_tree: records a node for every observable rule
//   - peg_strings: decodes every string through actions
func BenchmarkParsers(b *testing.B) {
	inputs := []struct {
		name  string
		items int
	}{
		{"30kb", 150},
		{"500kb", 2500},
	}

	parsers := []struct {
		name string
		fn   func(*testing.B, []byte)
	}{
		{"encoding_json", benchmarkEncodingJSON},
		{"buger_jsonparser", benchmarkBugerJSONParser},
		{"peg", benchmarkPegParser},
		{"peg_tree", benchmarkPegTreeParser},
		{"peg_strings", benchmarkPegStringsParser},
	}

	for _, input := range inputs {
		data := generateInput(b, input.items)
		for _, parser := range parsers {
			version := getVersion(parser.name)
			name := fmt.Sprintf("input=%s/parser=%s/version=%s", input.name, parser.name, version)
			fn := parser.fn
			b.Run(name, func(b *testing.B) {
				b.SetBytes(int64(len(data)))
				fn(b, data)
			})
		}
	}
}

type item struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Active   bool              `json:"active"`
	Balance  float64           `json:"balance"`
	Tags     []string          `json:"tags"`
	Friends  []int             `json:"friends"`
	Address  map[string]string `json:"address"`
	Greeting *string           `json:"greeting"`
}

// generateInput returns an array of `n` objects, about 200 bytes each
func generateInput(tb testing.TB, n int) []byte {
	tb.Helper()
	items := make([]item, n)
	for i := range items {
		items[i] = item{
			ID:      i,
			Name:    fmt.Sprintf("Person Number %d", i),
			Email:   fmt.Sprintf("person.%d@example.com", i),
			Active:  i%3 == 0,
			Balance: float64(i) * 12.75,
			Tags:    []string{"tag\t" + fmt.Sprint(i%7), "café"},
			Friends: []int{i + 1, i + 2, i * 3},
			Address: map[string]string{"city": "Springfield", "zip": fmt.Sprintf("%05d", i)},
		}
	}
	data, err := json.Marshal(items)
	if err != nil {
		tb.Fatalf("failed to generate input: %v", err)
	}
	return data
}

func benchmarkEncodingJSON(b *testing.B, data []byte) {
	var v any
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatalf("error in encoding/json: %v", err)
		}
	}
}

func benchmarkBugerJSONParser(b *testing.B, data []byte) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
			jsonparser.ObjectEach(value, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
				return nil
			})
		})
		if err != nil {
			b.Fatalf("error in buger/jsonparser: %v", err)
		}
	}
}

func benchmarkPegParser(b *testing.B, data []byte) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Validate(data); err != nil {
			b.Fatalf("error in PEG parser: %v", err)
		}
	}
}

func benchmarkPegTreeParser(b *testing.B, data []byte) {
	tb := peg.NewTreeBuilder()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tb.Reset()
		ok, err := peg.Parse(JSON, data, "json", peg.WithControlOption(tb))
		if err != nil || !ok {
			b.Fatalf("error in PEG parser: %v", err)
		}
		if tb.Root() == nil {
			b.Fatal("PEG parser built no tree")
		}
	}
}

func benchmarkPegStringsParser(b *testing.B, data []byte) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Strings(data); err != nil {
			b.Fatalf("error in PEG parser: %v", err)
		}
	}
}

var moduleVersions = buildVersions()

func getVersion(parser string) string {
	switch parser {
	case "encoding_json":
		// stdlib version is Go version
		return runtime.Version()
	case "peg", "peg_tree", "peg_strings":
		// Use env var set by run script, fallback to "dev"
		if v := os.Getenv("PEG_VERSION"); v != "" {
			return v
		}
		return "dev"
	case "buger_jsonparser":
		if v, ok := moduleVersions["github.com/buger/jsonparser"]; ok {
			return v
		}
	}
	return "unknown"
}

func buildVersions() map[string]string {
	versions := make(map[string]string)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return versions
	}
	for _, dep := range info.Deps {
		versions[dep.Path] = dep.Version
	}
	return versions
}
