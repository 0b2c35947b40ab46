package patient

import "math"

type Verdict string

const (
	VerdictUnderweight Verdict = "Underweight"
	VerdictNormal      Verdict = "Normal"
	VerdictOverweight  Verdict = "Overweight"
	VerdictObese       Verdict = "Obese"
)

// Lower bounds (inclusive) of the verdict ranges.
const (
	normalFrom     = 18.5
	overweightFrom = 25.0
	obeseFrom      = 30.0
)

// ComputeBMI returns weight/height² rounded to two decimals and the verdict for
// the rounded value. A result that is not a finite number is reported as a
// ValidationError on the input responsible for it.
func ComputeBMI(heightM, weightKg float64) (float64, Verdict, error) {
	if !(heightM > 0) {
		return 0, "", ErrInvalidHeight
	}
	squared := heightM * heightM
	bmi := math.Round(weightKg/squared*100) / 100
	if math.IsInf(bmi, 0) || math.IsNaN(bmi) {
		field := "weight"
		if math.IsInf(1/squared, 0) {
			field = "height"
		}
		return 0, "", &ValidationError{Field: field, Message: "out of range"}
	}
	return bmi, Classify(bmi), nil
}

// Classify maps a BMI to its verdict using closed-open ranges.
func Classify(bmi float64) Verdict {
	switch {
	case bmi < normalFrom:
		return VerdictUnderweight
	case bmi < overweightFrom:
		return VerdictNormal
	case bmi < obeseFrom:
		return VerdictOverweight
	default:
		return VerdictObese
	}
}
