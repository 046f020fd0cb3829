package support

import "testing"

func TestIntSqrt(t *testing.T) {
	cases := map[uint64]uint64{
		0:   0,
		1:   1,
		4:   2,
		8:   2,
		9:   3,
		99:  9,
		100: 10,
	}
	for in, want := range cases {
		if got := IntSqrt(in); got != want {
			t.Errorf("IntSqrt(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestScaleFraction(t *testing.T) {
	cases := []struct {
		digits []byte
		scale  int
		want   int64
	}{
		{[]byte("5"), 3, 500},
		{[]byte("799"), 3, 799},
		{[]byte("7999"), 3, 799},
		{[]byte(""), 3, 0},
		{[]byte("5"), 0, 0},
	}
	for _, c := range cases {
		if got := ScaleFraction(c.digits, c.scale); got != c.want {
			t.Errorf("ScaleFraction(%q, %d) = %d, want %d", c.digits, c.scale, got, c.want)
		}
	}
}

func TestGPSWeekTimeToUTC(t *testing.T) {
	// Week 0, tow 0, no leap seconds -> the GPS epoch itself.
	y, m, d, h, mi, s, ms := GPSWeekTimeToUTC(0, 0, 0)
	if y != 1980 || m != 1 || d != 6 || h != 0 || mi != 0 || s != 0 || ms != 0 {
		t.Fatalf("unexpected epoch: %04d-%02d-%02d %02d:%02d:%02d.%03d", y, m, d, h, mi, s, ms)
	}

	// One day later.
	_, _, d2, _, _, _, _ := GPSWeekTimeToUTC(0, 24*3600*1000, 0)
	if d2 != 7 {
		t.Fatalf("expected day 7, got %d", d2)
	}
}

func TestHypot2(t *testing.T) {
	if got := Hypot2(3, 4); got != 5 {
		t.Errorf("Hypot2(3,4) = %d, want 5", got)
	}
}
