package models

// Macros are macronutrient grams.
type Macros struct {
	Carbs   float64 `json:"carbs"`
	Protein float64 `json:"protein"`
	Fats    float64 `json:"fats"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Carbs:   m.Carbs + o.Carbs,
		Protein: m.Protein + o.Protein,
		Fats:    m.Fats + o.Fats,
	}
}

// MacroTargets are calorie-share percentages. They are expected to sum to 100
// but nothing downstream of profile editing relies on it.
type MacroTargets struct {
	Carbs   float64 `json:"carbs"`
	Protein float64 `json:"protein"`
	Fats    float64 `json:"fats"`
}

func (t MacroTargets) Sum() float64 { return t.Carbs + t.Protein + t.Fats }
