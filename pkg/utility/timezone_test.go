package utility

import (
	"math"
	"testing"
)

func TestTimeParts(t *testing.T) {
	secs := SecondsFromTimeParts(13, 45)
	if secs != 49500 {
		t.Fatalf("SecondsFromTimeParts = %d", secs)
	}
	if TimePart(secs, Hours) != 13 || TimePart(secs, Minutes) != 45 {
		t.Fatalf("TimePart mismatch for %d", secs)
	}
	if TimePart(secs, "x") != 0 {
		t.Fatalf("unknown unit should yield 0")
	}
}

func TestTimePartUTC(t *testing.T) {
	secs := SecondsFromTimeParts(10, 0)
	if got := TimePartUTC(secs, Hours, "+02:30"); got != 12 {
		t.Fatalf("hours = %d", got)
	}
	if got := TimePartUTC(secs, Minutes, "+02:30"); got != 30 {
		t.Fatalf("minutes = %d", got)
	}
}

func TestTimezoneParsing(t *testing.T) {
	cases := map[string]float64{
		"+02:00":  2,
		"-05:30":  -5.5,
		"+05:45":  5.75,
		"+05":     5.75,
		"-03":     -3.75,
		"+05x:30": 5.5,
		"+1:00":   1,
		"bogus":   0,
		"+xx:30":  0,
		"":        0,
	}
	for in, want := range cases {
		if got := TimezoneFromString(in); got != want {
			t.Fatalf("TimezoneFromString(%q) = %v, want %v", in, got, want)
		}
	}
	if SecondsFromTimezoneString("-01:30") != -5400 {
		t.Fatalf("SecondsFromTimezoneString mismatch")
	}
}

func TestStringFromTimezone(t *testing.T) {
	cases := map[float64]string{
		2:     "+02:00",
		-5.5:  "-05:30",
		5.75:  "+05:45",
		10:    "+10:00",
		-11.0: "-11:00",
	}
	for in, want := range cases {
		if got := StringFromTimezone(in); got != want {
			t.Fatalf("StringFromTimezone(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRoundToAndNaN(t *testing.T) {
	if RoundTo(3.14159, 2) != 3.14 {
		t.Fatalf("RoundTo mismatch")
	}
	if !IsNaNOrEmpty(math.NaN()) || !IsNaNOrEmpty(0) || IsNaNOrEmpty(1.5) {
		t.Fatalf("IsNaNOrEmpty mismatch")
	}
}
