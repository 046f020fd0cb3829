package nmea

import "testing"

func TestParseTime(t *testing.T) {
	h, m, s, ms, present, ok := parseTime([]byte("074155.799"))
	if !ok || !present {
		t.Fatalf("expected valid present time")
	}
	if h != 7 || m != 41 || s != 55 || ms != 799 {
		t.Fatalf("got %02d:%02d:%02d.%03d", h, m, s, ms)
	}

	if _, _, _, _, present, _ := parseTime(nil); present {
		t.Fatalf("empty field should be absent, not present")
	}

	if _, _, _, _, _, ok := parseTime([]byte("99:61:99")); ok {
		t.Fatalf("garbage time should fail")
	}

	if _, _, _, _, _, ok := parseTime([]byte("246000")); ok {
		t.Fatalf("hour 24 is out of range")
	}
}

func TestParseFixed(t *testing.T) {
	v, present, ok := parseFixed([]byte("0.9"), 2)
	if !ok || !present || v != 90 {
		t.Fatalf("parseFixed(0.9, 2) = %d, present=%v, ok=%v", v, present, ok)
	}

	v, _, ok = parseFixed([]byte("-30.0"), 3)
	if !ok || v != -30000 {
		t.Fatalf("parseFixed(-30.0, 3) = %d, ok=%v", v, ok)
	}

	if _, present, _ := parseFixed(nil, 3); present {
		t.Fatalf("empty field should be absent")
	}

	if _, _, ok := parseFixed([]byte("1x2"), 3); ok {
		t.Fatalf("non-digit should fail")
	}
}

func TestParseLatLon(t *testing.T) {
	v, present, ok := parseLatLon([]byte("3723.2475"), 2, 89)
	if !ok || !present {
		t.Fatalf("expected a valid present latitude")
	}
	want := int32(373874583) // 37 + 23.2475/60 degrees, *1e7, rounded
	if v != want {
		t.Fatalf("lat = %d, want %d", v, want)
	}

	v, _, ok = parseLatLon([]byte("12158.3416"), 3, 179)
	if !ok {
		t.Fatalf("expected a valid longitude")
	}
	want = 1219723600
	if v != want {
		t.Fatalf("lon = %d, want %d", v, want)
	}
}

func TestHemisphereSign(t *testing.T) {
	if sign, ok := hemisphereSign([]byte("S")); !ok || sign != -1 {
		t.Fatalf("S should be -1, got %d ok=%v", sign, ok)
	}
	if sign, ok := hemisphereSign([]byte("E")); !ok || sign != 1 {
		t.Fatalf("E should be +1, got %d ok=%v", sign, ok)
	}
	if _, ok := hemisphereSign([]byte("X")); ok {
		t.Fatalf("X is not a valid hemisphere")
	}
}

func TestSpeedKnotsToMMps(t *testing.T) {
	if got := speedKnotsToMMps(500); got != 257 {
		t.Fatalf("speedKnotsToMMps(0.5 knots) = %d, want 257", got)
	}
}

func TestParseDate(t *testing.T) {
	y, m, d, present, ok := parseDate([]byte("010118"))
	if !ok || !present || y != 38 || m != 1 || d != 1 {
		t.Fatalf("parseDate(010118) = %d-%02d-%02d present=%v ok=%v", y, m, d, present, ok)
	}
}
