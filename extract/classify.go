// Package extract implements the hotel result and travel facts extraction
// chains over page snapshots.
package extract

import (
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

var _ voygen.PlatformClassifier = (*Classifier)(nil)

// Signals are the cheap page facts the classifier inspects.
type Signals struct {
	Hostname string
	Title    string
	Heading  string
	Sources  []string // script src and link href URLs, lower-cased
	Markup   string   // first voygen.MarkupSignatureBytes of markup, lower-cased
}

// SignalsOf reads classification signals from a snapshot.
func SignalsOf(page *voygen.Page) Signals {
	s := Signals{
		Hostname: page.Hostname(),
		Title:    strings.ToLower(page.Title),
		Heading:  strings.ToLower(page.Heading),
		Markup:   strings.ToLower(page.MarkupSignature()),
	}
	for _, src := range page.ScriptSources {
		s.Sources = append(s.Sources, strings.ToLower(src))
	}
	for _, href := range page.LinkHrefs {
		s.Sources = append(s.Sources, strings.ToLower(href))
	}
	return s
}

// HostContains reports whether the hostname contains any of the substrings.
func (s Signals) HostContains(subs ...string) bool {
	return containsAny(s.Hostname, subs)
}

// SourceContains reports whether any script or link URL contains any of the substrings.
func (s Signals) SourceContains(subs ...string) bool {
	for _, src := range s.Sources {
		if containsAny(src, subs) {
			return true
		}
	}
	return false
}

// MarkupContains reports whether the markup signature contains any of the substrings.
func (s Signals) MarkupContains(subs ...string) bool {
	return containsAny(s.Markup, subs)
}

// TextContains reports whether the title or first heading contains any of the substrings.
func (s Signals) TextContains(subs ...string) bool {
	return containsAny(s.Title, subs) || containsAny(s.Heading, subs)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Rule is one classification test. Rules are evaluated in order and the
// first match wins.
type Rule struct {
	Platform voygen.Platform
	Match    func(s Signals) bool
}

// DefaultRules returns the built-in platform rules, most specific first.
// Hostname tests come before markup tests for each platform.
func DefaultRules() []Rule {
	return []Rule{
		{voygen.PlatformNavitrip, func(s Signals) bool { return s.HostContains("navitrip") }},
		{voygen.PlatformVAX, func(s Signals) bool { return s.HostContains("vaxvacationaccess", "vax.") }},
		{voygen.PlatformTrisept, func(s Signals) bool { return s.HostContains("trisept", "tripsolutions") }},
		{voygen.PlatformNavitrip, func(s Signals) bool {
			return s.MarkupContains("__navitrip_state__", "navitrip") || s.SourceContains("navitrip")
		}},
		{voygen.PlatformVAX, func(s Signals) bool {
			return s.TextContains("vax vacationaccess") ||
				s.MarkupContains("vaxvacationaccess", "vax vacationaccess") ||
				s.SourceContains("vaxvacationaccess")
		}},
		{voygen.PlatformTrisept, func(s Signals) bool {
			return s.MarkupContains("trisept") || s.SourceContains("trisept")
		}},
	}
}

// Classifier infers a booking platform using string tests only.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier with DefaultRules.
func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRules()}
}

// NewClassifierWithRules creates a Classifier with custom rules.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the platform for the page. A hint naming a known
// platform short-circuits the rules; unknown hints are ignored.
func (c *Classifier) Classify(page *voygen.Page, hint string) voygen.Platform {
	if p, ok := ParsePlatform(hint); ok {
		return p
	}
	if page == nil {
		return voygen.PlatformGeneric
	}
	s := SignalsOf(page)
	for _, r := range c.rules {
		if r.Match(s) {
			return r.Platform
		}
	}
	return voygen.PlatformGeneric
}

// ParsePlatform returns the platform named by s, ignoring case and spaces.
func ParsePlatform(s string) (voygen.Platform, bool) {
	switch p := voygen.Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case voygen.PlatformGeneric, voygen.PlatformNavitrip, voygen.PlatformTrisept, voygen.PlatformVAX:
		return p, true
	}
	return "", false
}
