package types

// Well-known preference types stored in user_preferences. The vector
// also carries free-form types untouched.
const (
	CategoryPreference = "category_preference"
	CityPreference     = "city_preference"
	PricePreference    = "price_preference"
	DurationPreference = "duration_preference"
)

// PreferenceRow is one persisted preference tuple. Value arrives as
// whatever the driver hands back (NUMERIC, string, float) and is
// coerced when the vector is built.
type PreferenceRow struct {
	Type  string `json:"preference_type"`
	Key   string `json:"preference_key"`
	Value any    `json:"preference_value"`
}

// PreferenceVector maps preference type -> key -> weight. It is built
// fresh per session from persisted rows and never stored by this
// service. An empty (or nil) vector is valid and means "no preference".
type PreferenceVector map[string]map[string]float64

// Weight returns the weight for (prefType, key) or def when either
// level is absent.
func (v PreferenceVector) Weight(prefType, key string, def float64) float64 {
	if v == nil {
		return def
	}
	keys, ok := v[prefType]
	if !ok {
		return def
	}
	w, ok := keys[key]
	if !ok {
		return def
	}
	return w
}

// TypeWeights returns the key->weight map for a preference type, or
// nil when the vector has no entries for it.
func (v PreferenceVector) TypeWeights(prefType string) map[string]float64 {
	if v == nil {
		return nil
	}
	return v[prefType]
}

// CategoryWeights resolves the category weight map, accepting the
// legacy "category" type name some installations used before
// "category_preference" became canonical.
func (v PreferenceVector) CategoryWeights() map[string]float64 {
	if v == nil {
		return nil
	}
	if m := v[CategoryPreference]; len(m) > 0 {
		return m
	}
	return v["category"]
}
