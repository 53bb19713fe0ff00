package domain

import "testing"

func TestIsAutoSendEligible(t *testing.T) {
	tests := []struct {
		name      string
		mode      ResponseMode
		threshold float64
		safe      bool
		conf      float64
		want      bool
	}{
		{"eligible above threshold", ResponseModeAIAutoSend, 0.8, true, 0.9, true},
		{"eligible at exact threshold", ResponseModeAIAutoSend, 0.8, true, 0.8, true},
		{"below threshold", ResponseModeAIAutoSend, 0.8, true, 0.79, false},
		{"not safe to send", ResponseModeAIAutoSend, 0.8, false, 0.99, false},
		{"setter managed never auto-sends", ResponseModeSetterManaged, 0.0, true, 1.0, false},
		{"zero threshold sends any safe draft", ResponseModeAIAutoSend, 0.0, true, 0.0, true},
		{"threshold one requires full confidence", ResponseModeAIAutoSend, 1.0, true, 0.999, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Campaign{
				ResponseMode:                tc.mode,
				AutoSendConfidenceThreshold: tc.threshold,
			}
			eval := EvaluatorResult{SafeToSend: tc.safe, Confidence: tc.conf}

			if got := IsAutoSendEligible(c, eval); got != tc.want {
				t.Fatalf("IsAutoSendEligible(%+v, %+v) = %v, want %v", c, eval, got, tc.want)
			}
		})
	}
}

func TestValidateThreshold(t *testing.T) {
	for _, valid := range []float64{0, 0.5, 1} {
		if err := ValidateThreshold(valid); err != nil {
			t.Fatalf("expected %v to be valid, got %v", valid, err)
		}
	}
	for _, invalid := range []float64{-0.01, 1.01, 2} {
		if err := ValidateThreshold(invalid); err == nil {
			t.Fatalf("expected %v to be rejected", invalid)
		}
	}
}
