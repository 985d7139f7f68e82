package printer_test

import (
	"os"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/splanck/viper-sub025/internal/assert"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/parser"
	"github.com/splanck/viper-sub025/pkg/printer"
	"github.com/splanck/viper-sub025/pkg/source"
)

func dump(t *testing.T, src string) string {
	t.Helper()

	mgr := source.NewManager()
	fileID, err := mgr.AddFile("golden.bas", []byte(src))
	assert.NoError(t, err)

	emitter := diag.NewEmitter(mgr)
	prog := parser.ParseProgram([]byte(src), fileID, emitter)

	return printer.Dump(prog)
}

// TestGolden runs every scenario in testdata/golden.txtar: each ".bas" file
// is parsed and dumped, and the result must match its sibling ".want" file
// byte for byte. Ten cases pin the printer's exact output format,
// including the SELECT CASE arm's oddly-nested closing parens.
func TestGolden(t *testing.T) {
	raw, err := os.ReadFile("testdata/golden.txtar")
	assert.NoError(t, err)

	arc := txtar.Parse(raw)

	srcs := map[string]string{}
	wants := map[string]string{}

	for _, f := range arc.Files {
		name, kind, ok := strings.Cut(f.Name, ".")
		assert.True(t, ok, "malformed txtar entry name: "+f.Name)

		switch kind {
		case "bas":
			srcs[name] = string(f.Data)
		case "want":
			wants[name] = string(f.Data)
		default:
			t.Fatalf("unexpected txtar entry %q", f.Name)
		}
	}

	assert.True(t, len(srcs) > 0, "expected at least one scenario")

	for name, src := range srcs {
		want, ok := wants[name]
		assert.True(t, ok, "missing .want for scenario "+name)

		got := dump(t, src)
		assert.Equal(t, want, got, "scenario "+name)
	}
}
