package format

import (
	"testing"
	"time"
)

func TestParseAmountToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Cents
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "whole number", input: "15", want: 1500},
		{name: "exact half rounds up", input: "12.345", want: 1235},
		{name: "below half rounds down", input: "12.344", want: 1234},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "two separators", input: "1.2.3", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmountToCents(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseAmountToCents(%q) error = nil, want non-nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmountToCents(%q) unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("ParseAmountToCents(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestCentsString(t *testing.T) {
	if got := Cents(1550).String(); got != "15.50" {
		t.Fatalf("String() = %q, want %q", got, "15.50")
	}
	if got := Cents(5).String(); got != "0.05" {
		t.Fatalf("String() = %q, want %q", got, "0.05")
	}
}

func TestCurrencyGrouping(t *testing.T) {
	tests := []struct {
		cents Cents
		want  string
	}{
		{cents: 123456, want: "AED 1,234.56"},
		{cents: 1500, want: "AED 15.00"},
		{cents: 0, want: "AED 0.00"},
		{cents: 123456789, want: "AED 1,234,567.89"},
	}
	for _, tc := range tests {
		if got := Currency(tc.cents); got != tc.want {
			t.Fatalf("Currency(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestDateTimeBothShapes(t *testing.T) {
	if got := DateTime("2024-03-05 14:30:00"); got != "Mar 5, 2:30 PM" {
		t.Fatalf("DateTime() = %q, want %q", got, "Mar 5, 2:30 PM")
	}
	if got := DateTime("2024-03-05"); got != "Mar 5, 12:00 AM" {
		t.Fatalf("DateTime() = %q, want %q", got, "Mar 5, 12:00 AM")
	}
}

func TestGroupLabel(t *testing.T) {
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.Local)

	if got := GroupLabel("2024-03-05", now); got != "Today" {
		t.Fatalf("GroupLabel(today) = %q, want %q", got, "Today")
	}
	if got := GroupLabel("2024-03-04", now); got != "Yesterday" {
		t.Fatalf("GroupLabel(yesterday) = %q, want %q", got, "Yesterday")
	}
	if got := GroupLabel("2024-03-03", now); got != "Mar 3" {
		t.Fatalf("GroupLabel(older) = %q, want %q", got, "Mar 3")
	}
}

func TestDaysElapsedInCycle(t *testing.T) {
	tests := []struct {
		name  string
		cycle string
		now   time.Time
		want  int
	}{
		{
			name:  "third day of cycle",
			cycle: "Mar 2024",
			now:   time.Date(2024, time.March, 25, 13, 0, 0, 0, time.Local),
			want:  3,
		},
		{
			name:  "cycle start day",
			cycle: "Mar 2024",
			now:   time.Date(2024, time.March, 23, 0, 0, 0, 0, time.Local),
			want:  1,
		},
		{
			name:  "before cycle start clamps to 1",
			cycle: "Mar 2024",
			now:   time.Date(2024, time.March, 10, 0, 0, 0, 0, time.Local),
			want:  1,
		},
		{name: "empty label", cycle: "", now: time.Now(), want: 1},
		{name: "malformed label", cycle: "March-2024", now: time.Now(), want: 1},
		{name: "unknown month", cycle: "Mzz 2024", now: time.Now(), want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysElapsedInCycle(tc.cycle, tc.now); got != tc.want {
				t.Fatalf("DaysElapsedInCycle(%q) = %d, want %d", tc.cycle, got, tc.want)
			}
		})
	}
}

func TestInputValueBridging(t *testing.T) {
	if got := DateToInputValue("2024-03-05 14:30:00"); got != "2024-03-05T14:30" {
		t.Fatalf("DateToInputValue() = %q, want %q", got, "2024-03-05T14:30")
	}
	if got := DateToInputValue("2024-03-05"); got != "2024-03-05T00:00" {
		t.Fatalf("DateToInputValue() = %q, want %q", got, "2024-03-05T00:00")
	}
	if got := InputValueToDate("2024-03-05T14:30"); got != "2024-03-05 14:30:00" {
		t.Fatalf("InputValueToDate() = %q, want %q", got, "2024-03-05 14:30:00")
	}
	if got := InputValueToDate("2024-03-05"); got != "2024-03-05" {
		t.Fatalf("InputValueToDate() = %q, want %q", got, "2024-03-05")
	}
}

func TestEmojiUnknownCategory(t *testing.T) {
	if got := Emoji("Food & Dining"); got != "🍔" {
		t.Fatalf("Emoji() = %q, want %q", got, "🍔")
	}
	if got := Emoji("Llamas"); got != "📌" {
		t.Fatalf("Emoji() = %q, want %q", got, "📌")
	}
}
