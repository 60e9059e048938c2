package rod

import (
	"encoding/json"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// DefaultMaxGlobalBytes caps the serialized size of one captured global.
const DefaultMaxGlobalBytes = 4 << 20

// snapshotJS collects everything a Page needs in one round trip. It takes
// the names of the globals to capture and their size cap, and returns the
// snapshot as a JSON string.
const snapshotJS = `(globals, maxGlobalBytes) => {
	const squash = (s) => (s || '').replace(/\s+/g, ' ').trim();
	const scripts = [];
	const scriptSources = [];
	for (const s of document.querySelectorAll('script')) {
		if (s.src) {
			scriptSources.push(s.src);
			continue;
		}
		scripts.push({id: s.id || '', type: s.type || '', body: s.textContent || ''});
	}
	const linkHrefs = Array.from(document.querySelectorAll('link[href]'), (l) => l.href);
	const resources = performance.getEntriesByType('resource')
		.map((r) => ({name: r.name, initiatorType: r.initiatorType}));
	const captured = {};
	for (const name of globals || []) {
		try {
			const v = window[name];
			if (v === undefined || v === null || typeof v === 'function') continue;
			const s = JSON.stringify(v);
			if (s && s.length <= maxGlobalBytes) captured[name] = s;
		} catch (e) {}
	}
	const h1 = document.querySelector('h1');
	return JSON.stringify({
		url: location.href,
		title: document.title || '',
		heading: squash(h1 && h1.textContent),
		html: document.documentElement ? document.documentElement.outerHTML : '',
		text: squash(document.body && document.body.innerText),
		scripts,
		scriptSources,
		linkHrefs,
		resources,
		globals: captured,
	});
}`

type snapshot struct {
	URL           string            `json:"url"`
	Title         string            `json:"title"`
	Heading       string            `json:"heading"`
	HTML          string            `json:"html"`
	Text          string            `json:"text"`
	Scripts       []voygen.Script   `json:"scripts"`
	ScriptSources []string          `json:"scriptSources"`
	LinkHrefs     []string          `json:"linkHrefs"`
	Resources     []voygen.Resource `json:"resources"`
	Globals       map[string]string `json:"globals"`
}

// ParseSnapshot converts the output of the snapshot script into a Page.
// Captured globals that are not valid JSON are skipped.
func ParseSnapshot(raw string) (*voygen.Page, error) {
	var s snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, voygen.Errorf(voygen.EINTERNAL, "invalid page snapshot: %v", err)
	}
	page := &voygen.Page{
		URL:           s.URL,
		Title:         s.Title,
		Heading:       s.Heading,
		HTML:          s.HTML,
		Text:          s.Text,
		Scripts:       s.Scripts,
		ScriptSources: s.ScriptSources,
		LinkHrefs:     s.LinkHrefs,
		Resources:     s.Resources,
	}
	for name, v := range s.Globals {
		if !json.Valid([]byte(v)) {
			continue
		}
		if page.Globals == nil {
			page.Globals = make(map[string]json.RawMessage, len(s.Globals))
		}
		page.Globals[name] = json.RawMessage(v)
	}
	return page, nil
}
