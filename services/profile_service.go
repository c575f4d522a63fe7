package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
	"gorm.io/gorm"
)

// macroSumTolerance is how far macro targets may drift from 100%.
const macroSumTolerance = 0.1

// ImageUploader stores a base64 data URI and returns its public URL.
type ImageUploader interface {
	UploadDataURI(ctx context.Context, dataURI, keyPrefix string) (string, error)
}

// ProfileInput is a partial update; nil fields are left unchanged.
type ProfileInput struct {
	Name               *string               `json:"name"`
	Age                *int                  `json:"age"`
	Gender             *models.Gender        `json:"gender"`
	Height             *float64              `json:"height"`
	Weight             *float64              `json:"weight"`
	ActivityLevel      *models.ActivityLevel `json:"activity_level"`
	Goal               *models.Goal          `json:"goal"`
	DailyCalorieTarget *int                  `json:"daily_calorie_target"`
	MacroTargets       *models.MacroTargets  `json:"macro_targets"`
	ProfilePicture     *string               `json:"profile_picture"` // base64 data URI
}

func (in ProfileInput) Validate() error {
	if in.Age != nil && (*in.Age < 13 || *in.Age > 120) {
		return invalidf("age must be between 13 and 120")
	}
	if in.Gender != nil && !in.Gender.Valid() {
		return invalidf("gender must be male, female or other")
	}
	if in.Height != nil && (*in.Height < 50 || *in.Height > 300) {
		return invalidf("height must be between 50 and 300 cm")
	}
	if in.Weight != nil && (*in.Weight < 20 || *in.Weight > 500) {
		return invalidf("weight must be between 20 and 500 kg")
	}
	if in.ActivityLevel != nil && !utils.ValidActivityLevel(*in.ActivityLevel) {
		return invalidf("unknown activity_level %q", *in.ActivityLevel)
	}
	if in.Goal != nil && !in.Goal.Valid() {
		return invalidf("unknown goal %q", *in.Goal)
	}
	if in.DailyCalorieTarget != nil && (*in.DailyCalorieTarget < 800 || *in.DailyCalorieTarget > 10000) {
		return invalidf("daily_calorie_target must be between 800 and 10000")
	}
	if t := in.MacroTargets; t != nil {
		for _, v := range []float64{t.Carbs, t.Protein, t.Fats} {
			if v < 0 || v > 100 {
				return invalidf("macro targets must be between 0 and 100")
			}
		}
		if math.Abs(t.Sum()-100) > macroSumTolerance {
			return ErrMacroTargetsSum
		}
	}
	return nil
}

type ProfileService struct {
	db       *gorm.DB
	uploader ImageUploader
	defaults models.MacroTargets
	log      *slog.Logger
}

// NewProfileService takes the fallback macro split used for users without
// targets. uploader may be nil.
func NewProfileService(db *gorm.DB, uploader ImageUploader, defaults models.MacroTargets, log *slog.Logger) *ProfileService {
	return &ProfileService{db: db, uploader: uploader, defaults: defaults, log: log}
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	return &u, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.ProfilePicture != nil && *in.ProfilePicture != "" {
		if s.uploader == nil {
			return nil, fmt.Errorf("profile picture upload: %w", ErrUnavailable)
		}
		url, err := s.uploader.UploadDataURI(ctx, *in.ProfilePicture, fmt.Sprintf("user-%d", userID))
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		u.ProfilePicture = url
	}
	applyProfile(u, in)

	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	s.log.Info("profile updated", "user_id", userID)
	return u, nil
}

func applyProfile(u *models.User, in ProfileInput) {
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Age != nil {
		u.Age = in.Age
	}
	if in.Gender != nil {
		u.Gender = in.Gender
	}
	if in.Height != nil {
		u.Height = in.Height
	}
	if in.Weight != nil {
		u.Weight = in.Weight
	}
	if in.ActivityLevel != nil {
		u.ActivityLevel = in.ActivityLevel
	}
	if in.Goal != nil {
		u.Goal = in.Goal
	}
	if in.DailyCalorieTarget != nil {
		u.DailyCalorieTarget = in.DailyCalorieTarget
	}
	if in.MacroTargets != nil {
		u.MacroTargets = in.MacroTargets
	}
}

// EffectiveTargets is the user's macro split, or fallback when unset.
func EffectiveTargets(u *models.User, fallback models.MacroTargets) models.MacroTargets {
	if u != nil && u.MacroTargets != nil {
		return *u.MacroTargets
	}
	return fallback
}

// Targets returns what meals are graded and days are judged against.
func (s *ProfileService) Targets(ctx context.Context, userID uint) (models.MacroTargets, *int, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return models.MacroTargets{}, nil, err
	}
	return EffectiveTargets(u, s.defaults), u.DailyCalorieTarget, nil
}

type Recommendation struct {
	Available           bool                 `json:"available"`
	MissingFields       []string             `json:"missing_fields,omitempty"`
	BMR                 float64              `json:"bmr,omitempty"`
	TDEE                int                  `json:"tdee,omitempty"`
	RecommendedCalories int                  `json:"recommended_calories,omitempty"`
	RecommendedMacros   *models.MacroTargets `json:"recommended_macros,omitempty"`
	BMI                 float64              `json:"bmi,omitempty"`
	BMICategory         string               `json:"bmi_category,omitempty"`
}

// BuildRecommendation derives energy and macro advice from the profile. The
// calculators only run once every input they need is present; BMI is filled
// in as soon as height and weight are known.
func BuildRecommendation(u *models.User) (*Recommendation, error) {
	rec := &Recommendation{}

	if u.Height != nil && u.Weight != nil {
		rec.BMI = utils.CalculateBMI(*u.Weight, *u.Height)
		rec.BMICategory = utils.BMICategory(rec.BMI)
	}

	for _, f := range []struct {
		name    string
		missing bool
	}{
		{"age", u.Age == nil},
		{"gender", u.Gender == nil},
		{"height", u.Height == nil},
		{"weight", u.Weight == nil},
		{"activity_level", u.ActivityLevel == nil},
		{"goal", u.Goal == nil},
	} {
		if f.missing {
			rec.MissingFields = append(rec.MissingFields, f.name)
		}
	}
	if len(rec.MissingFields) > 0 {
		return rec, nil
	}

	bmr := utils.CalculateBMR(*u.Weight, *u.Height, *u.Age, *u.Gender)
	tdee, err := utils.CalculateTDEE(bmr, *u.ActivityLevel)
	if err != nil {
		return nil, err
	}
	calories, err := utils.CalculateRecommendedCalories(*u.Weight, *u.Height, *u.Age, *u.Gender, *u.ActivityLevel, *u.Goal)
	if err != nil {
		return nil, err
	}
	macros := utils.GetRecommendedMacros(*u.Goal)

	rec.Available = true
	rec.BMR = utils.RoundTo(bmr, 1)
	rec.TDEE = tdee
	rec.RecommendedCalories = calories
	rec.RecommendedMacros = &macros
	return rec, nil
}

func (s *ProfileService) Recommendations(ctx context.Context, userID uint) (*Recommendation, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildRecommendation(u)
}
