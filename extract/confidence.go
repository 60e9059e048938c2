package extract

import voygen "github.com/iamneilroberts/voygen-sub008"

// Confidence defaults per method. Structured data starts highest; each
// method adds a small bonus per supporting field or hint, capped so that a
// lower method never reaches the base of a higher one.
const (
	JSONLDBase     = 0.85
	JSONLDBonus    = 0.025
	JSONLDMaxBonus = 0.1

	InlineBase     = 0.7
	InlineBonus    = 0.02
	InlineMaxBonus = 0.1

	RegexBase     = 0.5
	RegexBonus    = 0.05
	RegexMaxBonus = 0.2

	GenericConfidence = 0.2
)

// Confidence scores a fact produced by route with the given number of
// supporting fields or hints, clamped into the valid range.
func Confidence(route voygen.FactRoute, support int) float64 {
	var base, bonus, maxBonus float64
	switch route {
	case voygen.RouteJSONLD:
		base, bonus, maxBonus = JSONLDBase, JSONLDBonus, JSONLDMaxBonus
	case voygen.RouteInlineJSON:
		base, bonus, maxBonus = InlineBase, InlineBonus, InlineMaxBonus
	case voygen.RouteRegex:
		base, bonus, maxBonus = RegexBase, RegexBonus, RegexMaxBonus
	default:
		return ClampConfidence(GenericConfidence)
	}
	return ClampConfidence(base + min(float64(max(support, 0))*bonus, maxBonus))
}

// ClampConfidence limits c to [voygen.MinConfidence, voygen.MaxConfidence].
func ClampConfidence(c float64) float64 {
	return min(max(c, voygen.MinConfidence), voygen.MaxConfidence)
}
