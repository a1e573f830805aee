package model

import "testing"

func TestParseBadgeCriteria(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		// aggregates to probe Met with after a successful parse
		totalPoints      int
		quizzesCompleted int
		wantMet          bool
	}{
		{
			name:    "empty criteria always holds",
			raw:     "",
			wantMet: true,
		},
		{
			name:        "points threshold met",
			raw:         `{"totalPoints":500}`,
			totalPoints: 500,
			wantMet:     true,
		},
		{
			name:        "points threshold not met",
			raw:         `{"totalPoints":500}`,
			totalPoints: 499,
			wantMet:     false,
		},
		{
			name:             "completion threshold",
			raw:              `{"quizzesCompleted":5}`,
			quizzesCompleted: 5,
			wantMet:          true,
		},
		{
			name:             "both keys are conjunctive",
			raw:              `{"totalPoints":100,"quizzesCompleted":3}`,
			totalPoints:      100,
			quizzesCompleted: 2,
			wantMet:          false,
		},
		{
			name:             "unknown keys are ignored",
			raw:              `{"streakDays":7}`,
			totalPoints:      0,
			quizzesCompleted: 0,
			wantMet:          true,
		},
		{
			name:    "malformed json",
			raw:     `{"totalPoints":`,
			wantErr: true,
		},
		{
			name:    "non-object payload",
			raw:     `[1,2,3]`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria, err := ParseBadgeCriteria(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected a parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBadgeCriteria() error = %v", err)
			}
			if got := criteria.Met(tt.totalPoints, tt.quizzesCompleted); got != tt.wantMet {
				t.Errorf("Met(%d, %d) = %v, want %v", tt.totalPoints, tt.quizzesCompleted, got, tt.wantMet)
			}
		})
	}
}

func TestBadgeCriteriaZeroThresholdHolds(t *testing.T) {
	criteria, err := ParseBadgeCriteria(`{"totalPoints":0}`)
	if err != nil {
		t.Fatalf("ParseBadgeCriteria() error = %v", err)
	}
	if !criteria.Met(0, 0) {
		t.Error("an explicit zero threshold should hold for a new user")
	}
}
