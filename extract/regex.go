package extract

import (
	"regexp"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// labelWindow is how far after a label such as "Check-in" a value is searched.
const labelWindow = 80

var (
	priceRe = regexp.MustCompile(`(?:US\$|CA\$|A\$|[$€£¥₹])\s?\d[\d,]*(?:\.\d{1,2})?` +
		`|\b\d[\d,]*(?:\.\d{1,2})?\s?(?:USD|EUR|GBP|CAD|AUD|MXN)\b` +
		`|\b(?:USD|EUR|GBP|CAD|AUD|MXN)\s?\d[\d,]*(?:\.\d{1,2})?`)
	confirmationRe = regexp.MustCompile(`(?i:confirmation|booking|reservation|itinerary)\s*(?i:number|no\.?|code|#|id|reference)?\s*[:#]?\s*([A-Z0-9][A-Z0-9-]{4,19})\b`)
	digitRe        = regexp.MustCompile(`\d`)

	flightVocabRe   = regexp.MustCompile(`(?i)\b(?:flights?|airlines?|departs?|departure|arrival|arrives?|boarding|gate|terminal|layover|nonstop)\b`)
	flightLabelRe   = regexp.MustCompile(`(?i:flight)\s*(?i:#|no\.?|number)?\s*([A-Z][A-Z0-9]|[0-9][A-Z])\s?(\d{1,4})\b`)
	flightNumberRe  = regexp.MustCompile(`\b([A-Z]{2}|[A-Z][0-9]|[0-9][A-Z])\s?(\d{1,4})\b`)
	airportPairRe   = regexp.MustCompile(`\b([A-Z]{3})\s*(?:→|->|–|—|-|to)\s*([A-Z]{3})\b`)
	recordLocatorRe = regexp.MustCompile(`(?i:record locator|confirmation code|booking reference|booking code|pnr|confirmation)\s*(?i:number|no\.?|#)?\s*[:#]?\s*([A-Z0-9]{6})\b`)
	departLabelRe   = regexp.MustCompile(`(?i)\bdepart(?:s|ure|ing)?\b`)
	arriveLabelRe   = regexp.MustCompile(`(?i)\barriv(?:es|al|ing|e)\b`)

	hotelVocabRe    = regexp.MustCompile(`(?i)\b(?:hotels?|resorts?|inn|suites?|lodge|motel|hostel|check[- ]?in|check[- ]?out|nights?|rooms?|accommodations?|stay)\b`)
	hotelNameRe     = regexp.MustCompile(`\b((?:[A-Z][\w'&.-]*\s+){0,4}(?:Hotel|Resort|Inn|Suites|Lodge|Motel)(?:\s+(?:&\s+)?[A-Z][\w'&.-]*){0,4})`)
	checkInLabelRe  = regexp.MustCompile(`(?i)check[- ]?in(?:\s+date)?`)
	checkOutLabelRe = regexp.MustCompile(`(?i)check[- ]?out(?:\s+date)?`)

	eventVocabRe = regexp.MustCompile(`(?i)\b(?:concerts?|festivals?|shows?|tickets?|events?|exhibitions?|performances?|tours?|games?|match|gala|conference)\b`)
	venueRe      = regexp.MustCompile(`(?i:venue|location)\s*:\s*([^|;.,]{3,60})`)

	reservationVocabRe = regexp.MustCompile(`(?i)\b(?:reservations?|bookings?|booked|confirmation|confirmed|itinerary|reserved)\b`)

	streetRe = regexp.MustCompile(`\b\d{1,5}\s+(?:[A-Z][a-zA-Z]+\.?\s+){1,4}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Court|Ct|Place|Pl|Square|Sq|Highway|Hwy|Parkway|Pkwy)\b\.?(?:,\s*[A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)*){0,2}`)
	geoRe    = regexp.MustCompile(`(-?\d{1,2}\.\d{3,})\s*,\s*(-?\d{1,3}\.\d{3,})`)
)

// notAirlines are two-letter tokens that look like carrier codes but are not.
var notAirlines = map[string]bool{"AM": true, "PM": true, "ID": true, "NO": true, "TO": true}

// textRule builds a fact of one kind from visible text. It reports false
// when the text does not support the kind.
type textRule func(page *voygen.Page, text string) (voygen.TravelFact, []string, bool)

// TextRules maps each kind to its regex heuristic.
var TextRules = map[voygen.FactKind]textRule{
	voygen.KindFlight:      flightFromText,
	voygen.KindHotel:       hotelFromText,
	voygen.KindEvent:       eventFromText,
	voygen.KindReservation: reservationFromText,
	voygen.KindPlace:       placeFromText,
}

// RegexFacts runs the text heuristics for the wanted kinds over text. Each
// kind yields at most one fact.
func RegexFacts(page *voygen.Page, text string, kinds []voygen.FactKind) []voygen.TravelFact {
	var facts []voygen.TravelFact
	for _, kind := range kinds {
		rule, ok := TextRules[kind]
		if !ok {
			continue
		}
		fact, hints, ok := rule(page, text)
		if !ok {
			continue
		}
		fact.Kind = kind
		fact.Confidence = Confidence(voygen.RouteRegex, len(hints))
		fact.Source = voygen.FactSource{Route: voygen.RouteRegex, Hints: hints}
		facts = append(facts, fact)
	}
	return facts
}

func flightFromText(_ *voygen.Page, text string) (voygen.TravelFact, []string, bool) {
	if !flightVocabRe.MatchString(text) {
		return voygen.TravelFact{}, nil, false
	}
	var f voygen.TravelFact
	hints := []string{"flight_vocabulary"}

	if m := flightLabelRe.FindStringSubmatch(text); m != nil && !notAirlines[m[1]] {
		f.Airline, f.FlightNumber = m[1], m[2]
	} else {
		for _, m := range flightNumberRe.FindAllStringSubmatch(text, -1) {
			if !notAirlines[m[1]] {
				f.Airline, f.FlightNumber = m[1], m[2]
				break
			}
		}
	}
	if f.FlightNumber != "" {
		hints = append(hints, "flight_number")
	}
	if m := airportPairRe.FindStringSubmatch(text); m != nil {
		f.DepartureAirport, f.ArrivalAirport = m[1], m[2]
		hints = append(hints, "airports")
	}
	if m := recordLocatorRe.FindStringSubmatch(text); m != nil {
		f.RecordLocator = m[1]
		hints = append(hints, "record_locator")
	}
	if len(hints) == 1 {
		return voygen.TravelFact{}, nil, false
	}

	dates := FindDates(text)
	if d, ok := dateAfter(text, departLabelRe, labelWindow); ok {
		f.DepartureTime = d
	} else if len(dates) > 0 {
		f.DepartureTime = dates[0]
	}
	if d, ok := dateAfter(text, arriveLabelRe, labelWindow); ok {
		f.ArrivalTime = d
	} else if len(dates) > 1 {
		f.ArrivalTime = dates[1]
	}
	if f.DepartureTime != "" {
		hints = append(hints, "date")
	}
	return f, hints, true
}

func hotelFromText(_ *voygen.Page, text string) (voygen.TravelFact, []string, bool) {
	if !hotelVocabRe.MatchString(text) {
		return voygen.TravelFact{}, nil, false
	}
	var f voygen.TravelFact
	hints := []string{"hotel_vocabulary"}
	support := 0

	dates := FindDates(text)
	if d, ok := dateAfter(text, checkInLabelRe, labelWindow); ok {
		f.CheckIn = d
	} else if len(dates) > 0 {
		f.CheckIn = dates[0]
	}
	if d, ok := dateAfter(text, checkOutLabelRe, labelWindow); ok {
		f.CheckOut = d
	} else if len(dates) > 1 && dates[1] != f.CheckIn {
		f.CheckOut = dates[1]
	}
	if f.CheckIn != "" {
		hints = append(hints, "date")
		support++
	}
	if p := priceRe.FindString(text); p != "" {
		f.Price = strings.TrimSpace(p)
		f.Currency = voygen.CurrencyFromText(f.Price)
		hints = append(hints, "price")
		support++
	}
	if c := confirmation(text); c != "" {
		f.ConfirmationNumber = c
		hints = append(hints, "confirmation")
		support++
	}
	if support == 0 {
		return voygen.TravelFact{}, nil, false
	}
	if m := hotelNameRe.FindStringSubmatch(text); m != nil {
		f.HotelName = strings.TrimSpace(m[1])
		hints = append(hints, "hotel_name")
	}
	if a := streetRe.FindString(text); a != "" {
		f.Address = a
		hints = append(hints, "address")
	}
	return f, hints, true
}

func eventFromText(page *voygen.Page, text string) (voygen.TravelFact, []string, bool) {
	if !eventVocabRe.MatchString(text) {
		return voygen.TravelFact{}, nil, false
	}
	var f voygen.TravelFact
	hints := []string{"event_vocabulary"}

	dates := FindDates(text)
	if len(dates) > 0 {
		f.StartDate = dates[0]
		hints = append(hints, "date")
	}
	if len(dates) > 1 && dates[1] != dates[0] {
		f.EndDate = dates[1]
	}
	if p := priceRe.FindString(text); p != "" {
		f.Price = strings.TrimSpace(p)
		f.Currency = voygen.CurrencyFromText(f.Price)
		hints = append(hints, "price")
	}
	if len(hints) == 1 {
		return voygen.TravelFact{}, nil, false
	}
	if m := venueRe.FindStringSubmatch(text); m != nil {
		f.Venue = strings.TrimSpace(m[1])
		hints = append(hints, "venue")
	}
	f.Name = pageName(page)
	return f, hints, true
}

func reservationFromText(page *voygen.Page, text string) (voygen.TravelFact, []string, bool) {
	if !reservationVocabRe.MatchString(text) {
		return voygen.TravelFact{}, nil, false
	}
	var f voygen.TravelFact
	hints := []string{"reservation_vocabulary"}

	if c := confirmation(text); c != "" {
		f.ConfirmationNumber = c
		hints = append(hints, "confirmation")
	}
	dates := FindDates(text)
	if len(dates) > 0 {
		f.StartDate = dates[0]
		hints = append(hints, "date")
	}
	if len(hints) == 1 {
		return voygen.TravelFact{}, nil, false
	}
	if len(dates) > 1 && dates[1] != dates[0] {
		f.EndDate = dates[1]
	}
	if p := priceRe.FindString(text); p != "" {
		f.Price = strings.TrimSpace(p)
		f.Currency = voygen.CurrencyFromText(f.Price)
		hints = append(hints, "price")
	}
	f.Name = pageName(page)
	return f, hints, true
}

func placeFromText(page *voygen.Page, text string) (voygen.TravelFact, []string, bool) {
	var f voygen.TravelFact
	var hints []string
	if a := streetRe.FindString(text); a != "" {
		f.Address = a
		hints = append(hints, "street_address")
	}
	if m := geoRe.FindStringSubmatch(text); m != nil {
		lat, lng := voygen.NumberPtr(m[1]), voygen.NumberPtr(m[2])
		if lat != nil && lng != nil && *lat >= -90 && *lat <= 90 && *lng >= -180 && *lng <= 180 {
			f.Lat, f.Lng = lat, lng
			hints = append(hints, "coordinates")
		}
	}
	if len(hints) == 0 {
		return voygen.TravelFact{}, nil, false
	}
	f.Name = pageName(page)
	return f, hints, true
}

// confirmation returns the first confirmation-like token containing a digit.
func confirmation(text string) string {
	for _, m := range confirmationRe.FindAllStringSubmatch(text, -1) {
		if digitRe.MatchString(m[1]) {
			return m[1]
		}
	}
	return ""
}

func pageName(page *voygen.Page) string {
	if page == nil {
		return ""
	}
	if page.Heading != "" {
		return page.Heading
	}
	return page.Title
}
