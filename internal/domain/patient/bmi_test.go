package patient

import (
	"errors"
	"math"
	"testing"
)

func TestComputeBMI(t *testing.T) {
	tests := []struct {
		name        string
		height      float64
		weight      float64
		wantBMI     float64
		wantVerdict Verdict
	}{
		{"overweight", 1.8, 90, 27.78, VerdictOverweight},
		{"normal lower bound", 1.0, 18.5, 18.5, VerdictNormal},
		{"just below normal", 1.0, 18.49, 18.49, VerdictUnderweight},
		{"overweight lower bound", 1.0, 25, 25, VerdictOverweight},
		{"obese lower bound", 1.0, 30, 30, VerdictObese},
		{"upper normal", 1.0, 24.99, 24.99, VerdictNormal},
		{"rounds up", 1.75, 70, 22.86, VerdictNormal},
		{"underweight", 1.9, 55, 15.24, VerdictUnderweight},
		{"obese", 1.6, 100, 39.06, VerdictObese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bmi, verdict, err := ComputeBMI(tt.height, tt.weight)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bmi != tt.wantBMI {
				t.Errorf("ComputeBMI(%v, %v) bmi = %v, want %v", tt.height, tt.weight, bmi, tt.wantBMI)
			}
			if verdict != tt.wantVerdict {
				t.Errorf("ComputeBMI(%v, %v) verdict = %s, want %s", tt.height, tt.weight, verdict, tt.wantVerdict)
			}
		})
	}
}

func TestComputeBMI_MatchesFormula(t *testing.T) {
	for h := 0.5; h <= 2.5; h += 0.07 {
		for w := 2.0; w <= 250; w += 7.3 {
			bmi, verdict, err := ComputeBMI(h, w)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := math.Round(w/(h*h)*100) / 100
			if bmi != want {
				t.Fatalf("ComputeBMI(%v, %v) = %v, want %v", h, w, bmi, want)
			}
			if verdict != Classify(bmi) {
				t.Fatalf("verdict %s inconsistent with bmi %v", verdict, bmi)
			}
		}
	}
}

func TestComputeBMI_InvalidHeight(t *testing.T) {
	for _, h := range []float64{0, -1.7, math.NaN()} {
		if _, _, err := ComputeBMI(h, 70); !errors.Is(err, ErrInvalidHeight) {
			t.Errorf("ComputeBMI(%v, 70) error = %v, want ErrInvalidHeight", h, err)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		bmi  float64
		want Verdict
	}{
		{0, VerdictUnderweight},
		{18.49, VerdictUnderweight},
		{18.5, VerdictNormal},
		{24.99, VerdictNormal},
		{25, VerdictOverweight},
		{29.99, VerdictOverweight},
		{30, VerdictObese},
		{55.2, VerdictObese},
	}
	for _, tt := range tests {
		if got := Classify(tt.bmi); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.bmi, got, tt.want)
		}
	}
}

func TestComputeBMI_OutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		height float64
		weight float64
		field  string
	}{
		{"height underflows", 1e-200, 70, "height"},
		{"subnormal height", 1e-160, 70, "height"},
		{"weight overflows", 1.8, 1e307, "weight"},
		{"infinite weight", 1.8, math.Inf(1), "weight"},
		{"nan weight", 1.8, math.NaN(), "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ComputeBMI(tt.height, tt.weight)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ComputeBMI(%v, %v) error = %v, want ValidationError", tt.height, tt.weight, err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}
