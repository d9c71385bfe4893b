package station

import "testing"

func TestObservationSetLatest(t *testing.T) {
	set := ObservationSet{
		"100": {"t": 1.0},
		"200": {"t": 2.0},
	}

	obs, ok := set.Latest()
	if !ok {
		t.Fatalf("expected an observation")
	}
	if v, _ := obs.Field("t"); v != 2.0 {
		t.Fatalf("expected record under greatest key, got t=%v", v)
	}
}

func TestObservationSetLatestEmpty(t *testing.T) {
	if _, ok := (ObservationSet{}).Latest(); ok {
		t.Fatalf("empty set should not yield an observation")
	}
}

func TestObservationField(t *testing.T) {
	obs := Observation{"in_temp": 21.5}

	if v, ok := obs.Field("in_temp"); !ok || v != 21.5 {
		t.Fatalf("expected in_temp=21.5, got %v (ok=%v)", v, ok)
	}
	if _, ok := obs.Field("out_temp"); ok {
		t.Fatalf("absent field should report ok=false")
	}
}
