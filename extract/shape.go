package extract

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// maxSearchDepth bounds the recursive search for hotel-shaped arrays.
const maxSearchDepth = 10

// minHotelScore is the number of populated canonical fields, besides the
// name, an object needs to count as hotel-like.
const minHotelScore = 2

// lodgingFields are the fields that set a hotel apart from other named
// records such as articles or links. A hotel-like object has at least one.
var lodgingFields = map[string]bool{
	"lat": true, "lng": true, "address": true, "star_rating": true, "review_score": true,
	"price_text": true, "cancellation_text": true, "refundable": true,
}

// FieldCandidates lists the key paths probed for one canonical field.
// Paths are dot-separated; numeric segments index into arrays. The first
// path with a usable value wins.
type FieldCandidates struct {
	Field string
	Paths []string
	Set   func(row *voygen.HotelRow, v any, base *url.URL) bool
}

// HotelFields is the ordered field-candidate table used to map hotel-like
// objects into rows.
var HotelFields = []FieldCandidates{
	{"id", []string{"id", "hotelId", "hotel_id", "hotelID", "propertyId", "property_id", "propertyID", "hotelCode", "code", "slug"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.ID = textOf(v); return r.ID != "" }},
	{"name", []string{"name", "hotelName", "hotel_name", "propertyName", "property_name", "displayName", "title", "hotel.name", "property.name", "hotelInfo.name"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.Name = textOf(v); return r.Name != "" }},
	{"brand", []string{"brand", "brandName", "brand_name", "chain", "chainName", "chain_name"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.Brand = textOf(v); return r.Brand != "" }},
	{"lat", []string{"lat", "latitude", "geo.lat", "geo.latitude", "location.lat", "location.latitude", "coordinates.lat", "coordinates.latitude", "geoCode.latitude", "position.lat"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.Lat = voygen.NumberPtr(v); return r.Lat != nil }},
	{"lng", []string{"lng", "lon", "long", "longitude", "geo.lng", "geo.lon", "geo.longitude", "location.lng", "location.lon", "location.longitude", "coordinates.lng", "coordinates.lon", "coordinates.longitude", "geoCode.longitude", "position.lng"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.Lng = voygen.NumberPtr(v); return r.Lng != nil }},
	{"address", []string{"address", "fullAddress", "full_address", "formattedAddress", "addressLine", "location.address", "location"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.Address = addressOf(v); return r.Address != "" }},
	{"star_rating", []string{"starRating", "star_rating", "stars", "starRating.value", "rating.stars", "hotelClass", "hotel_class", "category.stars"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.StarRating = textOf(v); return r.StarRating != "" }},
	{"review_score", []string{"reviewScore", "review_score", "guestRating", "guest_rating", "reviews.score", "reviews.rating", "rating.score", "rating.value", "reviewRating", "rating"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.ReviewScore = textOf(v); return r.ReviewScore != "" }},
	{"price_text", []string{"priceText", "price_text", "displayPrice", "formattedPrice", "price.formatted", "price.display", "price.displayPrice", "price", "rate", "lowestPrice", "totalPrice", "minRate", "pricing.total", "offers.0.price"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.PriceText = textOf(v); return r.PriceText != "" }},
	{"currency", []string{"currency", "currencyCode", "currency_code", "price.currency", "price.currencyCode", "rate.currency", "pricing.currency"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.Currency = textOf(v); return r.Currency != "" }},
	{"taxes_fees_text", []string{"taxesFeesText", "taxes_fees_text", "taxesAndFees", "taxes", "fees", "price.taxes", "price.fees"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.TaxesFeesText = textOf(v); return r.TaxesFeesText != "" }},
	{"cancellation_text", []string{"cancellationText", "cancellation_text", "cancellationPolicy", "cancellation_policy", "cancelPolicy", "cancellation", "refundPolicy"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.CancellationText = textOf(v); return r.CancellationText != "" }},
	{"refundable", []string{"refundable", "isRefundable", "is_refundable", "freeCancellation", "free_cancellation"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.Refundable = boolOf(v); return r.Refundable != nil }},
	{"package_type", []string{"packageType", "package_type", "productType", "product_type"},
		func(r *voygen.HotelRow, v any, _ *url.URL) bool { r.PackageType = textOf(v); return r.PackageType != "" }},
	{"image_url", []string{"imageUrl", "image_url", "image", "thumbnailUrl", "thumbnail", "photo", "mainImage", "heroImage", "images.0", "photos.0"},
		func(r *voygen.HotelRow, v any, base *url.URL) bool {
			r.ImageURL = resolveURL(base, urlOf(v))
			return r.ImageURL != ""
		}},
	{"detail_url", []string{"detailUrl", "detail_url", "detailsUrl", "url", "link", "href", "deepLink", "deeplink", "permalink"},
		func(r *voygen.HotelRow, v any, base *url.URL) bool {
			r.DetailURL = resolveURL(base, urlOf(v))
			return r.DetailURL != ""
		}},
}

// RowFromObject maps a hotel-like object into a row. It reports false when
// no name can be found.
func RowFromObject(obj map[string]any, base *url.URL) (voygen.HotelRow, bool) {
	var row voygen.HotelRow
	populate(&row, obj, base)
	if row.Name == "" {
		return voygen.HotelRow{}, false
	}
	if row.Currency == "" {
		row.Currency = voygen.CurrencyFromText(row.PriceText)
	}
	if row.Refundable == nil {
		row.Refundable = voygen.RefundableFromText(row.CancellationText)
	}
	return row, true
}

// populate fills row from obj and returns the names of the fields set.
func populate(row *voygen.HotelRow, obj map[string]any, base *url.URL) []string {
	var set []string
	for _, fc := range HotelFields {
		for _, path := range fc.Paths {
			v, ok := Lookup(obj, path)
			if !ok {
				continue
			}
			if fc.Set(row, v, base) {
				set = append(set, fc.Field)
				break
			}
		}
	}
	return set
}

// hotelScore returns the number of canonical fields other than the name an
// object populates, or -1 when it has no name or no lodging field.
func hotelScore(obj map[string]any) int {
	var row voygen.HotelRow
	set := populate(&row, obj, nil)
	if row.Name == "" {
		return -1
	}
	lodging := false
	for _, f := range set {
		if lodgingFields[f] {
			lodging = true
			break
		}
	}
	if !lodging {
		return -1
	}
	return len(set) - 1
}

// Lookup resolves a dot-separated path inside a decoded JSON value.
func Lookup(v any, path string) (any, bool) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// HotelArray is a candidate array of hotel-like objects found in a JSON tree.
type HotelArray struct {
	Path    string
	Objects []map[string]any
	score   int
}

// FindHotelArray walks a decoded JSON value and returns the array that looks
// most like a hotel result list, judged by the shape of its elements.
func FindHotelArray(v any) (HotelArray, bool) {
	var found []HotelArray
	walk(v, "$", 0, &found)
	if len(found) == 0 {
		return HotelArray{}, false
	}
	sort.SliceStable(found, func(i, j int) bool {
		if len(found[i].Objects) != len(found[j].Objects) {
			return len(found[i].Objects) > len(found[j].Objects)
		}
		return found[i].score > found[j].score
	})
	return found[0], true
}

func walk(v any, path string, depth int, found *[]HotelArray) {
	if depth > maxSearchDepth {
		return
	}
	switch node := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(node[k], path+"."+k, depth+1, found)
		}
	case []any:
		if arr, ok := hotelArray(node, path); ok {
			*found = append(*found, arr)
			return
		}
		for i, item := range node {
			walk(item, path+"["+strconv.Itoa(i)+"]", depth+1, found)
		}
	}
}

// hotelArray reports whether at least half of the array's objects are
// hotel-like, returning those objects.
func hotelArray(items []any, path string) (HotelArray, bool) {
	arr := HotelArray{Path: path}
	objects := 0
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		objects++
		if s := hotelScore(obj); s >= minHotelScore {
			arr.Objects = append(arr.Objects, obj)
			arr.score += s
		}
	}
	if len(arr.Objects) == 0 || len(arr.Objects)*2 < objects {
		return HotelArray{}, false
	}
	return arr, true
}

// RowsFromArray maps up to limit objects into rows, skipping nameless ones.
func RowsFromArray(arr HotelArray, base *url.URL, limit int) []voygen.HotelRow {
	rows := make([]voygen.HotelRow, 0, min(len(arr.Objects), limit))
	for _, obj := range arr.Objects {
		if len(rows) >= limit {
			break
		}
		if row, ok := RowFromObject(obj, base); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// textKeys are probed when a field value is an object.
var textKeys = []string{"formatted", "display", "displayValue", "text", "value", "amount", "price", "name", "label"}

// textOf renders a scalar or simple wrapper object as collapsed text.
func textOf(v any) string {
	switch x := v.(type) {
	case string:
		return voygen.CollapseSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]any:
		for _, k := range textKeys {
			if inner, ok := x[k]; ok {
				if s := textOf(inner); s != "" {
					return s
				}
			}
		}
	case []any:
		if len(x) > 0 {
			return textOf(x[0])
		}
	}
	return ""
}

func boolOf(v any) *bool {
	switch x := v.(type) {
	case bool:
		return &x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "y", "1":
			b := true
			return &b
		case "false", "no", "n", "0":
			b := false
			return &b
		}
		return voygen.RefundableFromText(x)
	}
	return nil
}

var urlKeys = []string{"url", "href", "src", "link", "uri"}

func urlOf(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case map[string]any:
		for _, k := range urlKeys {
			if s, ok := x[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	case []any:
		if len(x) > 0 {
			return urlOf(x[0])
		}
	}
	return ""
}

// addressParts are joined, in order, when an address is an object.
var addressParts = []string{
	"line1", "line2", "street", "streetAddress", "addressLine1", "addressLine2",
	"city", "addressLocality", "cityName",
	"state", "region", "addressRegion", "stateProvince",
	"postalCode", "zip", "zipCode",
	"country", "addressCountry", "countryName", "countryCode",
}

func addressOf(v any) string {
	switch x := v.(type) {
	case string:
		return voygen.CollapseSpace(x)
	case []any:
		var parts []string
		for _, item := range x {
			if s := addressOf(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		var parts []string
		seen := make(map[string]bool)
		for _, k := range addressParts {
			s := textOf(x[k])
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			parts = append(parts, s)
		}
		if len(parts) == 0 {
			if s, ok := x["address"]; ok {
				return addressOf(s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func resolveURL(base *url.URL, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "data:") || strings.HasPrefix(strings.ToLower(ref), "javascript:") {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}
