package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
	"gorm.io/gorm"
)

const defaultFoodListLimit = 50

// LabelRecognizer turns a food photo into descriptive labels.
type LabelRecognizer interface {
	RecognizeLabels(ctx context.Context, dataURI string) ([]string, error)
}

type FoodService struct {
	db  *gorm.DB
	rek LabelRecognizer
}

// NewFoodService accepts a nil recognizer; Recognize then reports ErrUnavailable.
func NewFoodService(db *gorm.DB, rek LabelRecognizer) *FoodService {
	return &FoodService{db: db, rek: rek}
}

type FoodInput struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ServingSize float64       `json:"serving_size"`
	Macros      models.Macros `json:"macros"`
	IsPublic    bool          `json:"is_public"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
}

func (in FoodInput) Validate() error {
	if len(strings.TrimSpace(in.Name)) < 3 {
		return invalidf("name must be at least 3 characters")
	}
	if in.ServingSize < 1 {
		return invalidf("serving_size must be at least 1 gram")
	}
	if in.Macros.Carbs < 0 || in.Macros.Protein < 0 || in.Macros.Fats < 0 {
		return invalidf("macros cannot be negative")
	}
	return nil
}

func (in FoodInput) apply(f *models.Food) {
	f.Name = strings.TrimSpace(in.Name)
	f.Description = strings.TrimSpace(in.Description)
	f.ServingSize = in.ServingSize
	f.Macros = in.Macros
	f.Calories = utils.CalculateCalories(in.Macros)
	f.IsPublic = in.IsPublic
	f.Category = strings.ToLower(strings.TrimSpace(in.Category))
	f.Tags = in.Tags
	if f.Tags == nil {
		f.Tags = []string{}
	}
}

type FoodFilter struct {
	Search        string
	Category      string
	IncludePublic bool
	IncludeSystem bool
	Limit         int
}

func (s *FoodService) Create(ctx context.Context, userID uint, in FoodInput) (*models.Food, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	food := &models.Food{UserID: userID, Source: models.FoodSourceUser}
	in.apply(food)

	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

// Get returns a food the user may see: their own, a public one, or a system food.
func (s *FoodService) Get(ctx context.Context, userID uint, id string) (*models.Food, error) {
	food, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !food.VisibleTo(userID) {
		return nil, ErrForbidden
	}
	return food, nil
}

// Update replaces an owned food's fields and recalculates its calories.
func (s *FoodService) Update(ctx context.Context, userID uint, id string, in FoodInput) (*models.Food, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	food, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.apply(food)

	if err := s.db.WithContext(ctx).Save(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

func (s *FoodService) Delete(ctx context.Context, userID uint, id string) error {
	food, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(food).Error
}

// List returns the user's foods first, then system foods by popularity, then
// other users' public foods.
func (s *FoodService) List(ctx context.Context, userID uint, f FoodFilter) ([]models.Food, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultFoodListLimit
	}

	filtered := func() *gorm.DB {
		q := s.db.WithContext(ctx).Limit(limit)
		if term := strings.TrimSpace(f.Search); term != "" {
			q = q.Where("name ILIKE ?", "%"+term+"%")
		}
		if f.Category != "" {
			q = q.Where("category = ?", strings.ToLower(f.Category))
		}
		return q
	}

	var own, system, public []models.Food
	if err := filtered().
		Where("user_id = ? AND source = ?", userID, models.FoodSourceUser).
		Order("created_at DESC").
		Find(&own).Error; err != nil {
		return nil, err
	}
	if f.IncludeSystem {
		if err := filtered().
			Where("source = ?", models.FoodSourceSystem).
			Order("usage_count DESC, name ASC").
			Find(&system).Error; err != nil {
			return nil, err
		}
	}
	if f.IncludePublic {
		if err := filtered().
			Where("user_id <> ? AND source = ? AND is_public = ?", userID, models.FoodSourceUser, true).
			Order("created_at DESC").
			Find(&public).Error; err != nil {
			return nil, err
		}
	}

	return MergeFoodResults(own, system, public, limit), nil
}

// MergeFoodResults concatenates the three catalog sources in priority order,
// sorts system foods by usage count, and truncates to limit.
func MergeFoodResults(own, system, public []models.Food, limit int) []models.Food {
	if limit <= 0 {
		limit = defaultFoodListLimit
	}

	popular := make([]models.Food, len(system))
	copy(popular, system)
	sort.SliceStable(popular, func(i, j int) bool { return popular[i].UsageCount > popular[j].UsageCount })

	out := make([]models.Food, 0, len(own)+len(popular)+len(public))
	out = append(out, own...)
	out = append(out, popular...)
	out = append(out, public...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// References resolves ids to the nutrition profiles meals are built from.
// Foods the user may not see are left out of the result.
func (s *FoodService) References(ctx context.Context, userID uint, ids []string) (map[string]models.FoodReference, error) {
	refs := make(map[string]models.FoodReference, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	var foods []models.Food
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&foods).Error; err != nil {
		return nil, err
	}
	for i := range foods {
		if foods[i].VisibleTo(userID) {
			refs[foods[i].ID] = foods[i].Reference()
		}
	}
	return refs, nil
}

// IncrementUsage bumps the usage counter of the system foods among ids.
func (s *FoodService) IncrementUsage(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Food{}).
		Where("id IN ? AND source = ?", ids, models.FoodSourceSystem).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error
}

type RecognitionResult struct {
	Labels []string      `json:"labels"`
	Foods  []models.Food `json:"foods"`
}

// Recognize labels a photo and searches the catalog with the top label.
func (s *FoodService) Recognize(ctx context.Context, userID uint, dataURI string) (*RecognitionResult, error) {
	if s.rek == nil {
		return nil, ErrUnavailable
	}
	labels, err := s.rek.RecognizeLabels(ctx, dataURI)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels detected: %w", ErrNotFound)
	}

	foods, err := s.List(ctx, userID, FoodFilter{
		Search:        labels[0],
		IncludePublic: true,
		IncludeSystem: true,
	})
	if err != nil {
		return nil, err
	}
	return &RecognitionResult{Labels: labels, Foods: foods}, nil
}

func (s *FoodService) find(ctx context.Context, id string) (*models.Food, error) {
	var food models.Food
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&food).Error; err != nil {
		return nil, notFound(err, "food")
	}
	return &food, nil
}

func (s *FoodService) owned(ctx context.Context, userID uint, id string) (*models.Food, error) {
	food, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if food.Source == models.FoodSourceSystem || food.UserID != userID {
		return nil, ErrForbidden
	}
	return food, nil
}
