package extract

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

var _ voygen.HotelStrategy = (*HydrationReader)(nil)

// HydrationKey is a well-known global state variable paired with the
// function that narrows its value to the subtree worth searching.
type HydrationKey struct {
	Name string
	Path func(v any) any
}

// DefaultHydrationKeys returns the known hydration globals. Adding support
// for a new framework or platform is one entry here.
func DefaultHydrationKeys() []HydrationKey {
	return []HydrationKey{
		{"__NAVITRIP_STATE__", identity},
		{"__NEXT_DATA__", subtree("props.pageProps", "props")},
		{"__NUXT__", subtree("data", "state")},
		{"__INITIAL_STATE__", identity},
		{"__PRELOADED_STATE__", identity},
		{"__REDUX_STATE__", identity},
		{"__APP_STATE__", identity},
		{"__APOLLO_STATE__", apolloEntities},
		{"__remixContext", subtree("state.loaderData", "loaderData")},
	}
}

func identity(v any) any { return v }

// subtree returns the first existing path, or the value itself.
func subtree(paths ...string) func(v any) any {
	return func(v any) any {
		for _, p := range paths {
			if sub, ok := Lookup(v, p); ok {
				return sub
			}
		}
		return v
	}
}

// apolloEntities flattens a normalized Apollo cache into an array of the
// hotel and property entities it holds.
func apolloEntities(v any) any {
	cache, ok := v.(map[string]any)
	if !ok {
		return v
	}
	keys := make([]string, 0, len(cache))
	for key := range cache {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var entities []any
	for _, key := range keys {
		obj, ok := cache[key].(map[string]any)
		if !ok {
			continue
		}
		typename, _ := obj["__typename"].(string)
		name := strings.ToLower(typename + " " + key)
		if strings.Contains(name, "hotel") || strings.Contains(name, "property") || strings.Contains(name, "lodging") {
			entities = append(entities, obj)
		}
	}
	if len(entities) == 0 {
		return v
	}
	return map[string]any{"entities": entities}
}

// HydrationReader implements the hydration tier. It checks the known
// globals in order, then every inline application/json script.
type HydrationReader struct {
	Keys []HydrationKey
}

// NewHydrationReader creates a HydrationReader with DefaultHydrationKeys.
func NewHydrationReader() *HydrationReader {
	return &HydrationReader{Keys: DefaultHydrationKeys()}
}

// GlobalNames returns the names of the globals the reader checks, for
// capturing them during a snapshot.
func (h *HydrationReader) GlobalNames() []string {
	names := make([]string, len(h.Keys))
	for i, k := range h.Keys {
		names[i] = k.Name
	}
	return names
}

// Route returns voygen.RouteHydration.
func (h *HydrationReader) Route() voygen.HotelRoute {
	return voygen.RouteHydration
}

// ExtractRows searches hydration state for arrays of hotel-like objects.
func (h *HydrationReader) ExtractRows(ctx context.Context, page *voygen.Page, req voygen.HotelRequest, limit int) ([]voygen.HotelRow, map[string]any, error) {
	base, _ := url.Parse(page.URL)
	checked := 0

	for _, key := range h.Keys {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		v, source, ok := hydrationValue(page, key.Name)
		if !ok {
			continue
		}
		checked++
		arr, ok := FindHotelArray(key.Path(v))
		if !ok {
			continue
		}
		if rows := RowsFromArray(arr, base, limit); len(rows) > 0 {
			return rows, map[string]any{
				"hydration_key": key.Name,
				"source":        source,
				"path":          arr.Path,
			}, nil
		}
	}

	for i, s := range page.ScriptsOfType("application/json") {
		var v any
		if err := json.Unmarshal([]byte(s.Body), &v); err != nil {
			continue
		}
		checked++
		arr, ok := FindHotelArray(v)
		if !ok {
			continue
		}
		if rows := RowsFromArray(arr, base, limit); len(rows) > 0 {
			return rows, map[string]any{
				"hydration_key": scriptLabel(s, i),
				"source":        "script",
				"path":          arr.Path,
			}, nil
		}
	}

	return nil, map[string]any{"hydration_checked": checked}, nil
}

func scriptLabel(s voygen.Script, i int) string {
	if s.ID != "" {
		return "script#" + s.ID
	}
	return "script[" + strconv.Itoa(i) + "]"
}

// hydrationValue finds the value of a hydration global: captured from the
// live page, embedded in a JSON script with a matching id, or assigned in
// an inline script.
func hydrationValue(page *voygen.Page, name string) (any, string, bool) {
	if raw, ok := page.Globals[name]; ok {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil && v != nil {
			return v, "global", true
		}
	}
	for _, s := range page.Scripts {
		if s.ID != name {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(s.Body), &v); err == nil && v != nil {
			return v, "script", true
		}
	}
	re := assignmentRe(name)
	for _, s := range page.Scripts {
		loc := re.FindStringIndex(s.Body)
		if loc == nil {
			continue
		}
		if v, ok := decodeLeadingJSON(s.Body[loc[1]:]); ok {
			return v, "inline", true
		}
	}
	return nil, "", false
}

// assignmentPatterns caches compiled assignment patterns by global name.
var assignmentPatterns sync.Map

// assignmentRe matches `window.NAME =`, `window["NAME"] =` and `var NAME =`.
// Each name is compiled once.
func assignmentRe(name string) *regexp.Regexp {
	if re, ok := assignmentPatterns.Load(name); ok {
		return re.(*regexp.Regexp)
	}
	q := regexp.QuoteMeta(name)
	re := regexp.MustCompile(`(?:window\.` + q + `|window\[["']` + q + `["']\]|(?:var|let|const)\s+` + q + `|self\.` + q + `)\s*=\s*`)
	actual, _ := assignmentPatterns.LoadOrStore(name, re)
	return actual.(*regexp.Regexp)
}

// decodeLeadingJSON decodes the JSON object or array at the start of s,
// ignoring whatever follows it. JavaScript object literals that are not
// valid JSON are rejected.
func decodeLeadingJSON(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "JSON.parse(") {
		var quoted string
		if err := json.NewDecoder(strings.NewReader(s[len("JSON.parse("):])).Decode(&quoted); err != nil {
			return nil, false
		}
		s = quoted
	}
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil, false
	}
	var v any
	if err := json.NewDecoder(strings.NewReader(s)).Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}
