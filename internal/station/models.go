package station

// Observation is one timestamped snapshot of all station fields, keyed by
// field name (e.g. "in_temp", "out_hygro", "baro"). It is produced
// wholesale by a single upstream fetch and never mutated afterwards.
type Observation map[string]float64

// Field returns the named reading and whether the station reported it.
func (o Observation) Field(name string) (float64, bool) {
	v, ok := o[name]
	return v, ok
}

// ObservationSet is the raw upstream payload: a mapping from sortable
// timestamp key to the Observation recorded at that time.
type ObservationSet map[string]Observation

// Latest returns the Observation under the greatest timestamp key.
// Keys are compared as strings, which is how the station orders them.
func (s ObservationSet) Latest() (Observation, bool) {
	var latest string
	found := false
	for ts := range s {
		if !found || latest < ts {
			latest = ts
			found = true
		}
	}
	if !found {
		return nil, false
	}
	return s[latest], true
}
