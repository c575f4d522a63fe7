package utils

// CalculateBMI expects weight in kilograms and height in centimeters and
// rounds to one decimal.
func CalculateBMI(weightKg, heightCm float64) float64 {
	h := heightCm / 100.0 // to meters
	return RoundTo(weightKg/(h*h), 1)
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	default:
		return "Obese"
	}
}
