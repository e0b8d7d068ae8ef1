package core

import (
	"testing"
	"time"
)

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestMonthsBackRollsOverYear(t *testing.T) {
	got := MonthsBack(at(2024, time.February, 10), 3)
	want := []string{"2024-01", "2023-12", "2023-11"}
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestMonthsBackEdgeCounts(t *testing.T) {
	if got := MonthsBack(at(2024, time.March, 1), 0); len(got) != 0 {
		t.Fatalf("expected empty for n=0, got %v", got)
	}
	if got := MonthsBack(at(2024, time.March, 1), -2); len(got) != 0 {
		t.Fatalf("expected empty for negative n, got %v", got)
	}
	got := MonthsBack(at(2024, time.March, 1), 14)
	if len(got) != 14 {
		t.Fatalf("expected 14 keys, got %d", len(got))
	}
	if got[0].String() != "2024-02" || got[13].String() != "2023-01" {
		t.Fatalf("unexpected range %s..%s", got[0], got[13])
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Before(got[i-1]) {
			t.Fatalf("keys not strictly decreasing at %d: %v", i, got)
		}
	}
}

func TestRemainingDaysInMonth(t *testing.T) {
	cases := []struct {
		now  time.Time
		want int
	}{
		{at(2024, time.January, 1), 30},
		{at(2024, time.January, 31), 0},
		{at(2024, time.February, 29), 0},
		{at(2023, time.February, 28), 0},
		{at(2024, time.February, 1), 28},
		{at(2024, time.April, 30), 0},
		{at(2024, time.December, 15), 16},
	}
	for _, tc := range cases {
		if got := RemainingDaysInMonth(tc.now); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.now.Format(time.DateOnly), tc.want, got)
		}
	}
}

func TestMonthKeyParseAndFormat(t *testing.T) {
	k, err := ParseMonthKey("2023-12")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if k.Year != 2023 || k.Month != time.December || k.String() != "2023-12" {
		t.Fatalf("unexpected key %+v", k)
	}
	if (MonthKey{Year: 987, Month: time.March}).String() != "0987-03" {
		t.Fatalf("year must be zero padded")
	}
	for _, bad := range []string{"2023-13", "2023-00", "2023-1", "23-12", "2023/12", "abcd-ef"} {
		if _, err := ParseMonthKey(bad); err != ErrInvalidMonth {
			t.Fatalf("%q expected ErrInvalidMonth, got %v", bad, err)
		}
	}
}

func TestMonthKeyAddMonths(t *testing.T) {
	k := MonthKey{Year: 2024, Month: time.January}
	cases := map[int]string{0: "2024-01", -1: "2023-12", -13: "2022-12", 11: "2024-12", 12: "2025-01", -24: "2022-01"}
	for n, want := range cases {
		if got := k.AddMonths(n).String(); got != want {
			t.Fatalf("AddMonths(%d): expected %s, got %s", n, want, got)
		}
	}
}
