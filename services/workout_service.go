package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"fitplan/models"
	"fitplan/utils"

	"gorm.io/gorm"
)

// SplitDay is one slot of a weekly split template.
type SplitDay struct {
	DayNumber int
	DayName   string
	Focus     string
	IsRestDay bool
}

// Strictness controls how plan-day payloads are validated before persisting.
// The AI path runs strict (structural violations surface as errors); the
// template/fallback path runs lenient (missing fields default).
type Strictness int

const (
	LenientDays Strictness = iota
	StrictDays
)

type WorkoutService struct {
	db  *gorm.DB
	ai  *AIService
	rng *rand.Rand
}

// NewWorkoutService builds the plan generator. The random source is injected
// so exercise sampling is reproducible under a fixed seed.
func NewWorkoutService(db *gorm.DB, ai *AIService, rng *rand.Rand) *WorkoutService {
	return &WorkoutService{db: db, ai: ai, rng: rng}
}

// SplitDays maps a split type to its fixed weekly template. Unknown tokens
// fall back to the default full-body week rather than erroring.
func SplitDays(splitType string) []SplitDay {
	if splitType == "ppl" {
		return []SplitDay{
			{DayNumber: 1, DayName: "Push", Focus: "Chest, Shoulders, Triceps"},
			{DayNumber: 2, DayName: "Pull", Focus: "Back, Biceps, Traps"},
			{DayNumber: 3, DayName: "Legs", Focus: "Legs, Quads, Hamstrings, Glutes, Calves"},
			{DayNumber: 4, DayName: "Rest", Focus: "Rest", IsRestDay: true},
			{DayNumber: 5, DayName: "Push", Focus: "Chest, Shoulders, Triceps"},
			{DayNumber: 6, DayName: "Pull", Focus: "Back, Biceps, Traps"},
			{DayNumber: 7, DayName: "Rest", Focus: "Rest", IsRestDay: true},
		}
	}
	return []SplitDay{
		{DayNumber: 1, DayName: "Full Body A", Focus: "Chest, Back, Legs, Shoulders"},
		{DayNumber: 2, DayName: "Rest", Focus: "Rest", IsRestDay: true},
		{DayNumber: 3, DayName: "Full Body B", Focus: "Legs, Back, Chest, Arms"},
		{DayNumber: 4, DayName: "Rest", Focus: "Rest", IsRestDay: true},
		{DayNumber: 5, DayName: "Full Body C", Focus: "Glutes, Shoulders, Back, Core"},
		{DayNumber: 6, DayName: "Rest", Focus: "Rest", IsRestDay: true},
		{DayNumber: 7, DayName: "Rest", Focus: "Rest", IsRestDay: true},
	}
}

// VolumeFor maps a fitness goal to a sets/reps prescription.
func VolumeFor(goal string) (sets int, reps string) {
	switch goal {
	case "strength":
		return 5, "5"
	case "muscle_gain":
		return 3, "8-12"
	case "fat_loss":
		return 3, "12-15"
	default:
		return 3, "10"
	}
}

// FilterByEquipment keeps exercises that need no primary equipment, or whose
// primary equipment is entirely covered by the supplied set. Partial coverage
// disqualifies.
func FilterByEquipment(exercises []models.Exercise, equipmentIDs []uint) []models.Exercise {
	available := make(map[uint]bool, len(equipmentIDs))
	for _, id := range equipmentIDs {
		available[id] = true
	}

	var out []models.Exercise
	for _, ex := range exercises {
		ok := true
		for _, link := range ex.ExerciseEquipment {
			if link.IsPrimary && !available[link.EquipmentID] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, ex)
		}
	}
	return out
}

// pickForFocus selects up to 3 exercises per muscle-group token of the focus
// string, concatenated in token order.
func pickForFocus(pool []models.Exercise, focus string, rng *rand.Rand) []models.Exercise {
	var selected []models.Exercise
	for _, group := range strings.Split(focus, ",") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		var matches []models.Exercise
		for _, ex := range pool {
			if strings.Contains(strings.ToLower(ex.MuscleGroup), strings.ToLower(group)) {
				matches = append(matches, ex)
			}
		}
		selected = append(selected, sampleSize(matches, 3, rng)...)
	}
	return selected
}

func sampleSize(exercises []models.Exercise, n int, rng *rand.Rand) []models.Exercise {
	shuffled := make([]models.Exercise, len(exercises))
	copy(shuffled, exercises)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// GeneratePlan builds and persists a weekly plan from the catalog, filtered to
// the equipment the user has access to. The plan, its days and its exercises
// are written in a single transaction; the previous active plan is deactivated
// in the same transaction.
func (s *WorkoutService) GeneratePlan(userID uint, splitType string, equipmentIDs []uint) (*models.WorkoutPlan, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, utils.NewNotFound("User not found")
	}

	var exercises []models.Exercise
	if err := s.db.Preload("ExerciseEquipment").Find(&exercises).Error; err != nil {
		return nil, err
	}
	pool := FilterByEquipment(exercises, equipmentIDs)

	days := SplitDays(splitType)
	sets, reps := VolumeFor(user.FitnessGoal)

	var planID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WorkoutPlan{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		plan := models.WorkoutPlan{
			UserID:    userID,
			SplitType: splitType,
			IsActive:  true,
		}
		for _, day := range days {
			plan.Days = append(plan.Days, models.PlanDay{
				DayNumber: day.DayNumber,
				DayName:   day.DayName,
				Focus:     day.Focus,
				IsRestDay: day.IsRestDay,
			})
		}
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}

		for _, day := range plan.Days {
			if day.IsRestDay {
				continue
			}
			orderIndex := 0
			for _, ex := range pickForFocus(pool, day.Focus, s.rng) {
				pe := models.PlanExercise{
					PlanDayID:  day.ID,
					ExerciseID: ex.ID,
					OrderIndex: orderIndex,
					Sets:       sets,
					Reps:       reps,
				}
				if err := tx.Create(&pe).Error; err != nil {
					return err
				}
				orderIndex++
			}
		}

		planID = plan.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadPlan(planID)
}

// GenerateAIPlan delegates day and exercise selection to the generative model.
// An unparseable payload falls back to the static bodyweight template; a
// parseable payload with missing or empty days is an upstream error.
func (s *WorkoutService) GenerateAIPlan(ctx context.Context, userID uint, splitType string) (*models.WorkoutPlan, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, utils.NewNotFound("User not found")
	}

	if !s.ai.Enabled() {
		return nil, utils.NewUpstreamError("AI API key not configured")
	}

	prompt := fmt.Sprintf(
		"Generate a 7-day workout week for a %s split. The lifter's goal is %s and experience level is %s. Rest days carry no exercises.",
		splitType, orDefault(user.FitnessGoal, "general fitness"), orDefault(user.ExperienceLevel, "beginner"),
	)

	raw, err := s.ai.GeneratePlan(ctx, prompt)
	if err != nil {
		return nil, utils.NewUpstreamError("Failed to generate plan")
	}

	days, parseErr := parseAIPlanDays(raw)
	if parseErr != nil {
		log.Printf("AI plan payload unparseable, using fallback template: %v", parseErr)
		if days, err = validatePlanDays(FallbackPlanDays(splitType, user.FitnessGoal), LenientDays); err != nil {
			return nil, err
		}
	} else {
		if days, err = validatePlanDays(days, StrictDays); err != nil {
			return nil, err
		}
	}

	return s.persistPlanDays(userID, splitType, days)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// parseAIPlanDays distinguishes unparseable text (error, caller falls back)
// from parseable-but-structurally-wrong payloads (handled by validation).
func parseAIPlanDays(raw string) ([]AIPlanDay, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}

	daysRaw, ok := fields["days"]
	if !ok {
		// parseable, structurally invalid: leave it to strict validation
		return nil, nil
	}
	var days []AIPlanDay
	if err := json.Unmarshal(daysRaw, &days); err != nil {
		return nil, fmt.Errorf("days is not an array of plan days: %w", err)
	}
	return days, nil
}

// validatePlanDays is the shared validation policy for both generation paths.
// Strict rejects structural problems; lenient fills defaults instead.
func validatePlanDays(days []AIPlanDay, level Strictness) ([]AIPlanDay, error) {
	if len(days) == 0 {
		if level == StrictDays {
			return nil, utils.NewUpstreamError("Invalid plan payload: missing days")
		}
		return nil, utils.NewValidationError("plan has no days")
	}

	out := make([]AIPlanDay, 0, len(days))
	for i, day := range days {
		if day.DayNumber <= 0 {
			if level == StrictDays {
				return nil, utils.NewUpstreamError(fmt.Sprintf("Invalid plan payload: day %d has no day number", i+1))
			}
			day.DayNumber = i + 1
		}
		if day.DayName == "" {
			if level == StrictDays {
				return nil, utils.NewUpstreamError(fmt.Sprintf("Invalid plan payload: day %d has no name", day.DayNumber))
			}
			day.DayName = fmt.Sprintf("Day %d", day.DayNumber)
		}
		if day.IsRestDay {
			day.Exercises = nil // rest days never own exercises
		} else {
			kept := make([]AIPlanExercise, 0, len(day.Exercises))
			for _, ex := range day.Exercises {
				if ex.Name == "" || ex.Sets <= 0 || ex.Reps == "" {
					if level == StrictDays {
						return nil, utils.NewUpstreamError(fmt.Sprintf("Invalid plan payload: malformed exercise on day %d", day.DayNumber))
					}
					if ex.Name == "" {
						continue
					}
					if ex.Sets <= 0 {
						ex.Sets = 3
					}
					if ex.Reps == "" {
						ex.Reps = "10"
					}
				}
				kept = append(kept, ex)
			}
			day.Exercises = kept
		}
		out = append(out, day)
	}
	return out, nil
}

// FallbackPlanDays is the deterministic, equipment-agnostic template used when
// AI generation is unavailable. Bodyweight exercises only, volume by goal.
func FallbackPlanDays(splitType, goal string) []AIPlanDay {
	sets, reps := VolumeFor(goal)

	byFocus := map[string][]string{
		"Push":      {"Push-up", "Pike Push-up", "Dip"},
		"Pull":      {"Pull-up", "Inverted Row", "Superman Hold"},
		"Legs":      {"Bodyweight Squat", "Lunge", "Calf Raise"},
		"Full Body": {"Push-up", "Bodyweight Squat", "Plank", "Lunge"},
	}

	out := make([]AIPlanDay, 0, 7)
	for _, day := range SplitDays(splitType) {
		planDay := AIPlanDay{
			DayNumber: day.DayNumber,
			DayName:   day.DayName,
			Focus:     day.Focus,
			IsRestDay: day.IsRestDay,
		}
		if !day.IsRestDay {
			names, ok := byFocus[day.DayName]
			if !ok {
				names = byFocus["Full Body"]
			}
			for _, name := range names {
				planDay.Exercises = append(planDay.Exercises, AIPlanExercise{
					Name:        name,
					MuscleGroup: day.Focus,
					Sets:        sets,
					Reps:        reps,
				})
			}
		}
		out = append(out, planDay)
	}
	return out
}

// persistPlanDays writes a validated day list in one transaction, resolving
// exercises by name against the catalog (creating bodyweight entries for names
// the catalog does not carry yet).
func (s *WorkoutService) persistPlanDays(userID uint, splitType string, days []AIPlanDay) (*models.WorkoutPlan, error) {
	var planID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WorkoutPlan{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		plan := models.WorkoutPlan{
			UserID:    userID,
			SplitType: splitType,
			IsActive:  true,
		}
		for _, day := range days {
			plan.Days = append(plan.Days, models.PlanDay{
				DayNumber: day.DayNumber,
				DayName:   day.DayName,
				Focus:     day.Focus,
				IsRestDay: day.IsRestDay,
			})
		}
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}

		for i, day := range days {
			if day.IsRestDay {
				continue
			}
			for idx, ex := range day.Exercises {
				exercise := models.Exercise{
					Name:        ex.Name,
					MuscleGroup: ex.MuscleGroup,
					Category:    "bodyweight",
					Difficulty:  "beginner",
				}
				if err := tx.Where("name = ?", ex.Name).FirstOrCreate(&exercise).Error; err != nil {
					return err
				}
				pe := models.PlanExercise{
					PlanDayID:  plan.Days[i].ID,
					ExerciseID: exercise.ID,
					OrderIndex: idx,
					Sets:       ex.Sets,
					Reps:       ex.Reps,
				}
				if err := tx.Create(&pe).Error; err != nil {
					return err
				}
			}
		}

		planID = plan.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadPlan(planID)
}

func (s *WorkoutService) loadPlan(planID uint) (*models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	err := s.db.
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC")
		}).
		Preload("Days.Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Days.Exercises.Exercise").
		First(&plan, planID).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetCurrentPlan returns the user's active plan fully hydrated, or nil.
func (s *WorkoutService) GetCurrentPlan(userID uint) (*models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	err := s.db.
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC")
		}).
		Preload("Days.Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Days.Exercises.Exercise").
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&plan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

type ProgressInput struct {
	PlanID     uint      `json:"planId"`
	ExerciseID uint      `json:"exerciseId" binding:"required"`
	DayIndex   int       `json:"dayIndex"`
	WeekNumber int       `json:"weekNumber"`
	Date       time.Time `json:"date" binding:"required"`
	Completed  bool      `json:"completed"`
}

// MarkExerciseComplete upserts the progress row keyed by (user, exercise,
// workout date): an existing row is updated, never duplicated.
func (s *WorkoutService) MarkExerciseComplete(userID uint, input ProgressInput) (*models.WorkoutProgress, error) {
	workoutDate := input.Date.UTC().Truncate(24 * time.Hour)

	var completedAt *time.Time
	if input.Completed {
		now := time.Now()
		completedAt = &now
	}

	var existing models.WorkoutProgress
	err := s.db.
		Where("user_id = ? AND exercise_id = ? AND workout_date = ?", userID, input.ExerciseID, workoutDate).
		First(&existing).Error
	if err == nil {
		existing.Completed = input.Completed
		existing.CompletedAt = completedAt
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	progress := models.WorkoutProgress{
		UserID:        userID,
		ExerciseID:    input.ExerciseID,
		WorkoutDate:   workoutDate,
		WorkoutPlanID: input.PlanID,
		DayIndex:      input.DayIndex,
		WeekNumber:    input.WeekNumber,
		Completed:     input.Completed,
		CompletedAt:   completedAt,
	}
	if err := s.db.Create(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// GetWeeklyProgress lists progress rows in [start, end].
func (s *WorkoutService) GetWeeklyProgress(userID uint, start, end time.Time) ([]models.WorkoutProgress, error) {
	var rows []models.WorkoutProgress
	err := s.db.
		Where("user_id = ? AND workout_date >= ? AND workout_date <= ?", userID, start, end).
		Find(&rows).Error
	return rows, err
}
