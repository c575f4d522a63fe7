package services

import (
	"context"
	"math"
	"strings"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
	"gorm.io/gorm"
)

const importBatchSize = 100

// SystemFoodRecord is one row of a system food dataset file.
type SystemFoodRecord struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ServingSizeG float64  `json:"serving_size_g"`
	Calories     float64  `json:"calories"`
	CarbsG       float64  `json:"carbs_g"`
	ProteinG     float64  `json:"protein_g"`
	FatsG        float64  `json:"fats_g"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	UsageCount   int      `json:"usageCount,omitempty"`
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"bread", []string{"paratha", "roti", "naan", "chapati", "puri", "kulcha"}},
	{"rice", []string{"rice", "biryani", "pulao", "khichdi"}},
	{"dal", []string{"dal", "lentil"}},
	{"curry", []string{"curry", "masala", "paneer", "sabzi"}},
	{"south-indian", []string{"dosa", "idli", "vada", "upma", "uttapam"}},
	{"snack", []string{"samosa", "pakora", "bhaji", "kachori"}},
	{"dessert", []string{"sweet", "kheer", "halwa", "ladoo", "barfi", "gulab"}},
	{"accompaniment", []string{"raita", "chutney", "pickle", "papad"}},
	{"breakfast", []string{"breakfast"}},
}

// DetectCategory guesses a category from the food name; first match wins.
func DetectCategory(name string) string {
	lower := strings.ToLower(name)
	for _, c := range categoryKeywords {
		for _, w := range c.words {
			if strings.Contains(lower, w) {
				return c.category
			}
		}
	}
	return "other"
}

var tagPhrases = []struct {
	phrase string
	tags   []string
}{
	{"classic", []string{"classic"}},
	{"home style", []string{"homemade"}},
	{"restaurant", []string{"restaurant-style"}},
	{"low oil", []string{"low-fat", "healthy"}},
	{"high protein", []string{"high-protein", "fitness"}},
}

func GenerateTags(name, description string) []string {
	tags := []string{"indian", "traditional"}
	text := strings.ToLower(name + " " + description)
	for _, p := range tagPhrases {
		if strings.Contains(text, p.phrase) {
			tags = append(tags, p.tags...)
		}
	}
	return tags
}

// PrepareSystemFoods normalizes dataset rows into system catalog entries.
// Rows without a name or serving size are skipped.
func PrepareSystemFoods(records []SystemFoodRecord) []models.Food {
	foods := make([]models.Food, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" || r.ServingSizeG <= 0 {
			continue
		}

		macros := models.Macros{
			Carbs:   utils.RoundTo(r.CarbsG, 1),
			Protein: utils.RoundTo(r.ProteinG, 1),
			Fats:    utils.RoundTo(r.FatsG, 1),
		}
		calories := int(math.Round(r.Calories))
		if calories == 0 {
			calories = utils.CalculateCalories(macros)
		}

		category := strings.ToLower(strings.TrimSpace(r.Category))
		if category == "" {
			category = DetectCategory(name)
		}
		tags := r.Tags
		if len(tags) == 0 {
			tags = GenerateTags(name, r.Description)
		}

		foods = append(foods, models.Food{
			Name:        name,
			Description: strings.TrimSpace(r.Description),
			ServingSize: r.ServingSizeG,
			Calories:    calories,
			Macros:      macros,
			Category:    category,
			Tags:        tags,
			Source:      models.FoodSourceSystem,
			UsageCount:  r.UsageCount,
		})
	}
	return foods
}

// ImportSystemFoods loads a dataset into the system catalog. With replace set
// the existing system foods are removed first. It returns how many rows were
// inserted.
func (s *FoodService) ImportSystemFoods(ctx context.Context, records []SystemFoodRecord, replace bool) (int, error) {
	foods := PrepareSystemFoods(records)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replace {
			if err := tx.Where("source = ?", models.FoodSourceSystem).Delete(&models.Food{}).Error; err != nil {
				return err
			}
		}
		if len(foods) == 0 {
			return nil
		}
		return tx.CreateInBatches(&foods, importBatchSize).Error
	})
	if err != nil {
		return 0, err
	}
	return len(foods), nil
}
