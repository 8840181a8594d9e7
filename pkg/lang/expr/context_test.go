package expr

import (
	"testing"
)

func TestBaseContext_RandomBoundaries(t *testing.T) {
	ctx := NewBaseContext(func(string) (bool, error) { return false, nil })

	for i := 0; i < 100; i++ {
		got, err := Eval("random(0)", ctx)
		if err != nil {
			t.Fatalf("Eval(random(0)) error = %v", err)
		}
		if got {
			t.Fatal("random(0) returned true")
		}

		got, err = Eval("random(1)", ctx)
		if err != nil {
			t.Fatalf("Eval(random(1)) error = %v", err)
		}
		if !got {
			t.Fatal("random(1) returned false")
		}
	}
}

func TestBaseContext_HasFactPassthrough(t *testing.T) {
	var seen string
	ctx := NewBaseContext(func(pattern string) (bool, error) {
		seen = pattern
		return pattern == "moonrise", nil
	})

	got, err := Eval("hasFact('moonrise')", ctx)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if !got {
		t.Error("hasFact('moonrise') = false, want true")
	}
	if seen != "moonrise" {
		t.Errorf("hasFact received %q, want %q", seen, "moonrise")
	}

	got, err = Eval("hasFact('sunrise')", ctx)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got {
		t.Error("hasFact('sunrise') = true, want false")
	}
}

func TestRollDice(t *testing.T) {
	tests := []struct {
		dice    string
		min     float64
		max     float64
		wantErr bool
	}{
		{"1d6", 1, 6, false},
		{"2d6", 2, 12, false},
		{"3d4+2", 5, 14, false},
		{"1d20-1", 0, 19, false},
		{"1d1", 1, 1, false},
		{"d6", 0, 0, true},
		{"2d", 0, 0, true},
		{"garbage", 0, 0, true},
		{"2x6", 0, 0, true},
		{"0d6", 0, 0, true},
		{"9999d6", 0, 0, true},
		{"1d99999", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.dice, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				got, err := rollDice(tt.dice)
				if (err != nil) != tt.wantErr {
					t.Fatalf("rollDice(%q) error = %v, wantErr %v", tt.dice, err, tt.wantErr)
				}
				if tt.wantErr {
					return
				}
				if got < tt.min || got > tt.max {
					t.Fatalf("rollDice(%q) = %v, want in [%v, %v]", tt.dice, got, tt.min, tt.max)
				}
			}
		})
	}
}

func TestBaseContext_TimeRecord(t *testing.T) {
	ctx := NewBaseContext(func(string) (bool, error) { return false, nil })

	record, ok := ctx["time"].(map[string]any)
	if !ok {
		t.Fatalf("time is %T, want map[string]any", ctx["time"])
	}

	hour, ok := record["hour"].(float64)
	if !ok || hour < 0 || hour > 23 {
		t.Errorf("time.hour = %v, want 0..23", record["hour"])
	}

	isDay := record["isDay"].(bool)
	isNight := record["isNight"].(bool)
	if isDay == isNight {
		t.Errorf("isDay (%v) and isNight (%v) must be complementary", isDay, isNight)
	}
	if wantDay := hour >= 6 && hour < 18; isDay != wantDay {
		t.Errorf("isDay = %v for hour %v, want %v", isDay, hour, wantDay)
	}
}
