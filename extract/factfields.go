package extract

import voygen "github.com/iamneilroberts/voygen-sub008"

// factField is one canonical fact field with its ordered candidate paths.
type factField struct {
	name  string
	paths []string
	set   func(f *voygen.TravelFact, v any) bool
}

func text(name string, dst func(f *voygen.TravelFact) *string, paths ...string) factField {
	return factField{name, paths, func(f *voygen.TravelFact, v any) bool {
		*dst(f) = textOf(v)
		return *dst(f) != ""
	}}
}

func date(name string, dst func(f *voygen.TravelFact) *string, paths ...string) factField {
	return factField{name, paths, func(f *voygen.TravelFact, v any) bool {
		*dst(f) = normalizeValue(v)
		return *dst(f) != ""
	}}
}

func address(name string, dst func(f *voygen.TravelFact) *string, paths ...string) factField {
	return factField{name, paths, func(f *voygen.TravelFact, v any) bool {
		*dst(f) = addressOf(v)
		return *dst(f) != ""
	}}
}

func number(name string, dst func(f *voygen.TravelFact) **float64, paths ...string) factField {
	return factField{name, paths, func(f *voygen.TravelFact, v any) bool {
		*dst(f) = voygen.NumberPtr(v)
		return *dst(f) != nil
	}}
}

var (
	confirmationPaths = []string{"reservationNumber", "confirmationNumber", "confirmation_number", "confirmationCode", "confirmation", "bookingNumber", "bookingReference", "itineraryNumber"}
	pricePaths        = []string{"totalPrice", "price", "offers.price", "offers.0.price", "priceSpecification.price", "total", "amount", "priceRange"}
	currencyPaths     = []string{"priceCurrency", "currency", "currencyCode", "totalPrice.currency", "offers.priceCurrency", "offers.0.priceCurrency", "priceSpecification.priceCurrency"}
	latPaths          = []string{"geo.latitude", "reservationFor.geo.latitude", "latitude", "lat", "location.lat", "location.latitude", "coordinates.lat"}
	lngPaths          = []string{"geo.longitude", "reservationFor.geo.longitude", "longitude", "lng", "lon", "location.lng", "location.lon", "location.longitude", "coordinates.lng"}
)

// FactFields holds the ordered field-candidate tables per fact kind. Paths
// cover schema.org property names as well as common API spellings.
var FactFields = map[voygen.FactKind][]factField{
	voygen.KindFlight: {
		text("airline", func(f *voygen.TravelFact) *string { return &f.Airline },
			"reservationFor.airline.iataCode", "reservationFor.airline.name", "reservationFor.airline", "airline.iataCode", "airline.name",
			"airline", "airlineCode", "carrierCode", "carrier", "marketingCarrier"),
		text("flight_number", func(f *voygen.TravelFact) *string { return &f.FlightNumber },
			"reservationFor.flightNumber", "flightNumber", "flight_number", "flightNo"),
		text("departure_airport", func(f *voygen.TravelFact) *string { return &f.DepartureAirport },
			"reservationFor.departureAirport.iataCode", "reservationFor.departureAirport.name", "reservationFor.departureAirport",
			"departureAirport.iataCode", "departureAirport.name", "departureAirport", "departure_airport", "origin.code", "origin"),
		text("arrival_airport", func(f *voygen.TravelFact) *string { return &f.ArrivalAirport },
			"reservationFor.arrivalAirport.iataCode", "reservationFor.arrivalAirport.name", "reservationFor.arrivalAirport",
			"arrivalAirport.iataCode", "arrivalAirport.name", "arrivalAirport", "arrival_airport", "destination.code", "destination"),
		date("departure_time", func(f *voygen.TravelFact) *string { return &f.DepartureTime },
			"reservationFor.departureTime", "departureTime", "departure_time", "departureDate", "departure.time"),
		date("arrival_time", func(f *voygen.TravelFact) *string { return &f.ArrivalTime },
			"reservationFor.arrivalTime", "arrivalTime", "arrival_time", "arrivalDate", "arrival.time"),
		text("record_locator", func(f *voygen.TravelFact) *string { return &f.RecordLocator },
			"reservationNumber", "recordLocator", "record_locator", "pnr", "confirmationCode", "bookingReference"),
	},
	voygen.KindHotel: {
		text("hotel_name", func(f *voygen.TravelFact) *string { return &f.HotelName },
			"reservationFor.name", "hotelName", "hotel_name", "hotel.name", "property.name", "propertyName", "name"),
		address("address", func(f *voygen.TravelFact) *string { return &f.Address },
			"reservationFor.address", "address", "hotel.address", "property.address", "location.address"),
		date("check_in", func(f *voygen.TravelFact) *string { return &f.CheckIn },
			"checkinTime", "checkinDate", "checkIn", "check_in", "checkInDate", "arrivalDate"),
		date("check_out", func(f *voygen.TravelFact) *string { return &f.CheckOut },
			"checkoutTime", "checkoutDate", "checkOut", "check_out", "checkOutDate", "departureDate"),
		text("confirmation_number", func(f *voygen.TravelFact) *string { return &f.ConfirmationNumber }, confirmationPaths...),
		text("price", func(f *voygen.TravelFact) *string { return &f.Price }, pricePaths...),
		text("currency", func(f *voygen.TravelFact) *string { return &f.Currency }, currencyPaths...),
		number("lat", func(f *voygen.TravelFact) **float64 { return &f.Lat }, latPaths...),
		number("lng", func(f *voygen.TravelFact) **float64 { return &f.Lng }, lngPaths...),
	},
	voygen.KindEvent: {
		text("name", func(f *voygen.TravelFact) *string { return &f.Name },
			"reservationFor.name", "name", "eventName", "title"),
		date("start_date", func(f *voygen.TravelFact) *string { return &f.StartDate },
			"reservationFor.startDate", "startDate", "start_date", "startTime", "start", "date"),
		date("end_date", func(f *voygen.TravelFact) *string { return &f.EndDate },
			"reservationFor.endDate", "endDate", "end_date", "endTime", "end"),
		text("venue", func(f *voygen.TravelFact) *string { return &f.Venue },
			"reservationFor.location.name", "location.name", "venue.name", "venue", "location"),
		address("address", func(f *voygen.TravelFact) *string { return &f.Address },
			"reservationFor.location.address", "location.address", "venue.address", "address"),
		text("price", func(f *voygen.TravelFact) *string { return &f.Price }, pricePaths...),
		text("currency", func(f *voygen.TravelFact) *string { return &f.Currency }, currencyPaths...),
	},
	voygen.KindReservation: {
		text("name", func(f *voygen.TravelFact) *string { return &f.Name },
			"reservationFor.name", "provider.name", "name", "title"),
		text("confirmation_number", func(f *voygen.TravelFact) *string { return &f.ConfirmationNumber }, confirmationPaths...),
		date("start_date", func(f *voygen.TravelFact) *string { return &f.StartDate },
			"reservationFor.startDate", "reservationFor.departureTime", "pickupTime", "startTime", "startDate", "startDateTime", "date"),
		date("end_date", func(f *voygen.TravelFact) *string { return &f.EndDate },
			"reservationFor.endDate", "reservationFor.arrivalTime", "dropoffTime", "endTime", "endDate"),
		address("address", func(f *voygen.TravelFact) *string { return &f.Address },
			"reservationFor.address", "pickupLocation.address", "address"),
		text("price", func(f *voygen.TravelFact) *string { return &f.Price }, pricePaths...),
		text("currency", func(f *voygen.TravelFact) *string { return &f.Currency }, currencyPaths...),
	},
	voygen.KindPlace: {
		text("name", func(f *voygen.TravelFact) *string { return &f.Name }, "name", "title", "placeName"),
		address("address", func(f *voygen.TravelFact) *string { return &f.Address }, "address", "location.address", "formattedAddress"),
		number("lat", func(f *voygen.TravelFact) **float64 { return &f.Lat }, latPaths...),
		number("lng", func(f *voygen.TravelFact) **float64 { return &f.Lng }, lngPaths...),
	},
}

// mapFact fills a fact of kind from obj and returns it with the number of
// fields populated.
func mapFact(kind voygen.FactKind, obj map[string]any) (voygen.TravelFact, int) {
	fact := voygen.TravelFact{Kind: kind}
	n := 0
	for _, field := range FactFields[kind] {
		for _, p := range field.paths {
			v, ok := Lookup(obj, p)
			if !ok {
				continue
			}
			if field.set(&fact, v) {
				n++
				break
			}
		}
	}
	if fact.Currency == "" {
		fact.Currency = voygen.CurrencyFromText(fact.Price)
	}
	return fact, n
}
