package sandbox

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"

	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

// allowedImports is the stdlib allow-list for snippet imports. Snippets
// rarely need any import since the helpers cover the usual operations,
// but a few safe packages are tolerated.
var allowedImports = map[string]bool{
	"fmt":     true,
	"math":    true,
	"sort":    true,
	"strconv": true,
	"strings": true,
	"time":    true,
}

// buildExports binds exactly the loaded frames and the approved helper
// set under one importable package. The executor dot-imports it so
// snippets reference bindings directly.
func buildExports(frames []*tabular.Frame) interp.Exports {
	symbols := map[string]reflect.Value{
		"Frame":        reflect.ValueOf((*tabular.Frame)(nil)),
		"Row":          reflect.ValueOf((*tabular.Row)(nil)),
		"NewFrame":     reflect.ValueOf(tabular.NewFrame),
		"ParseDay":     reflect.ValueOf(tabular.ParseDay),
		"MonthColumns": reflect.ValueOf(tabular.MonthColumns),
		"ToNumber":     reflect.ValueOf(tabular.ToNumber),
		"Abs":          reflect.ValueOf(tabular.Abs),
		"Round":        reflect.ValueOf(tabular.Round),
	}
	for _, f := range frames {
		symbols[f.Name()] = reflect.ValueOf(f)
	}
	return interp.Exports{"analytics/analytics": symbols}
}

// validateImports rejects snippets importing anything outside the
// allow-list. Both single-line and block import forms are checked.
func validateImports(snippet string) error {
	inBlock := false
	for _, line := range strings.Split(snippet, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
			continue
		case inBlock && strings.HasPrefix(trimmed, ")"):
			inBlock = false
			continue
		}

		var path string
		if inBlock {
			path = importPath(trimmed)
		} else if strings.HasPrefix(trimmed, "import ") {
			path = importPath(strings.TrimPrefix(trimmed, "import "))
		}
		if path == "" {
			continue
		}
		if path == "analytics" {
			continue
		}
		if !allowedImports[path] {
			return &ExecutionError{Message: fmt.Sprintf("import %q is not allowed", path)}
		}
	}
	return nil
}

// importPath extracts the quoted path from an import line, tolerating an
// alias or dot prefix. Returns empty when the line is not an import.
func importPath(line string) string {
	start := strings.Index(line, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(line[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return line[start+1 : start+1+end]
}
