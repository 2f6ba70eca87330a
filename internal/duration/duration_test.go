package duration

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) Duration {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestParseAndString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"00:00:00", "00:00:00"},
		{"01:30:00", "01:30:00"},
		{"123:59:59", "123:59:59"},
		{"9:5:7", "09:05:07"},
	}
	for _, c := range cases {
		d := mustParse(t, c.in)
		if got := d.String(); got != c.want {
			t.Errorf("Parse(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "1:30", "01:60:00", "01:00:61", "aa:bb:cc", "-1:00:00"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) should fail", s)
		}
	}
}

func TestAddCarry(t *testing.T) {
	a := mustParse(t, "01:45:30")
	b := mustParse(t, "02:30:45")
	if got := a.Add(b).String(); got != "04:16:15" {
		t.Errorf("add = %s, want 04:16:15", got)
	}
}

func TestAddAssociativeWithIdentity(t *testing.T) {
	a := mustParse(t, "05:59:59")
	b := mustParse(t, "00:00:01")
	c := mustParse(t, "12:30:30")

	if a.Add(b.Add(c)) != a.Add(b).Add(c) {
		t.Error("duration addition is not associative")
	}
	if a.Add(Zero) != a {
		t.Error("adding 00:00:00 changed the value")
	}
}

func TestSubFloor(t *testing.T) {
	est := mustParse(t, "02:00:00")
	worked := mustParse(t, "01:30:00")

	if got := est.SubFloor(worked).String(); got != "00:30:00" {
		t.Errorf("remaining = %s, want 00:30:00", got)
	}
	// Overworked items never report negative remaining time.
	if got := worked.SubFloor(est).String(); got != "00:00:00" {
		t.Errorf("floored remaining = %s, want 00:00:00", got)
	}
}

func TestPercentage(t *testing.T) {
	whole := mustParse(t, "02:00:00")

	if got := Percentage(mustParse(t, "00:30:00"), whole); got != 25 {
		t.Errorf("25%% case = %d", got)
	}
	if got := Percentage(whole, whole); got != 100 {
		t.Errorf("whole/whole = %d, want 100", got)
	}
	if got := Percentage(mustParse(t, "03:00:00"), whole); got != 100 {
		t.Errorf("overworked percentage = %d, want cap 100", got)
	}
	if got := Percentage(whole, Zero); got != 0 {
		t.Errorf("zero estimate = %d, want 0", got)
	}
}

func TestParseHumanPolicies(t *testing.T) {
	d, err := ParseHuman("1d 2h 30m 30s", Workday)
	if err != nil {
		t.Fatalf("workday parse: %v", err)
	}
	if got := d.String(); got != "10:30:30" {
		t.Errorf("workday 1d = %s, want 10:30:30", got)
	}

	d, err = ParseHuman("1d 2h 30m 30s", CalendarDay)
	if err != nil {
		t.Fatalf("calendar parse: %v", err)
	}
	if got := d.String(); got != "26:30:30" {
		t.Errorf("calendar 1d = %s, want 26:30:30", got)
	}

	if _, err := ParseHuman("2w", Workday); err == nil {
		t.Error("unknown unit should fail")
	}
}

func TestFromTimeClampsNegative(t *testing.T) {
	if FromTime(-5*time.Second) != Zero {
		t.Error("negative elapsed should clamp to zero")
	}
	if got := FromTime(9*time.Hour + 30*time.Minute).String(); got != "09:30:00" {
		t.Errorf("FromTime = %s, want 09:30:00", got)
	}
}
