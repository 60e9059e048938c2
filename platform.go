package voygen

// Platform identifies a booking platform family.
type Platform string

// Known platforms. PlatformGeneric is the fallback for unrecognized pages.
const (
	PlatformGeneric  Platform = "generic"
	PlatformNavitrip Platform = "navitrip"
	PlatformTrisept  Platform = "trisept"
	PlatformVAX      Platform = "vax"
)

// PlatformClassifier infers a platform from cheap page signals.
type PlatformClassifier interface {
	// Classify returns the platform for the page. A non-empty hint naming a
	// known platform is authoritative. Unmatched pages return PlatformGeneric.
	Classify(page *Page, hint string) Platform
}

// StrategyOrder maps platforms to the order in which hotel tiers are tried.
type StrategyOrder interface {
	// Order returns the tier order for a platform, falling back to the
	// generic order for platforms without an entry.
	Order(platform Platform) []HotelRoute
}
