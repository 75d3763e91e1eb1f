package services

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"fitplan/models"
	"fitplan/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSplitDays(t *testing.T) {
	t.Run("ppl", func(t *testing.T) {
		days := SplitDays("ppl")
		if len(days) != 7 {
			t.Fatalf("got %d days, want 7", len(days))
		}
		for _, day := range days {
			rest := day.DayNumber == 4 || day.DayNumber == 7
			if day.IsRestDay != rest {
				t.Errorf("day %d IsRestDay = %v, want %v", day.DayNumber, day.IsRestDay, rest)
			}
		}
		if days[0].DayName != "Push" || days[1].DayName != "Pull" || days[2].DayName != "Legs" {
			t.Errorf("first days = %q %q %q", days[0].DayName, days[1].DayName, days[2].DayName)
		}
	})

	t.Run("unknown token falls back to full body", func(t *testing.T) {
		for _, token := range []string{"upper_lower", "bro_split", "full_body", ""} {
			days := SplitDays(token)
			if len(days) != 7 {
				t.Fatalf("%q: got %d days, want 7", token, len(days))
			}
			training := 0
			for _, day := range days {
				if !day.IsRestDay {
					training++
				}
			}
			if training != 3 {
				t.Errorf("%q: %d training days, want 3", token, training)
			}
		}
	})

	t.Run("day numbers dense", func(t *testing.T) {
		for i, day := range SplitDays("ppl") {
			if day.DayNumber != i+1 {
				t.Errorf("index %d has day number %d", i, day.DayNumber)
			}
		}
	})
}

func TestVolumeFor(t *testing.T) {
	tests := []struct {
		goal string
		sets int
		reps string
	}{
		{"strength", 5, "5"},
		{"muscle_gain", 3, "8-12"},
		{"fat_loss", 3, "12-15"},
		{"endurance", 3, "10"},
		{"", 3, "10"},
	}
	for _, tt := range tests {
		sets, reps := VolumeFor(tt.goal)
		if sets != tt.sets || reps != tt.reps {
			t.Errorf("VolumeFor(%q) = %d x %q, want %d x %q", tt.goal, sets, reps, tt.sets, tt.reps)
		}
	}
}

func exerciseFixture(id uint, name, muscleGroup string, primaryEquipment ...uint) models.Exercise {
	ex := models.Exercise{
		Model:       gorm.Model{ID: id},
		Name:        name,
		MuscleGroup: muscleGroup,
	}
	for _, eq := range primaryEquipment {
		ex.ExerciseEquipment = append(ex.ExerciseEquipment, models.ExerciseEquipment{
			ExerciseID:  id,
			EquipmentID: eq,
			IsPrimary:   true,
		})
	}
	return ex
}

func TestFilterByEquipment(t *testing.T) {
	pushUp := exerciseFixture(1, "Push-up", "Chest, Triceps")                // no equipment
	benchPress := exerciseFixture(2, "Bench Press", "Chest, Triceps", 10, 11) // barbell + bench
	legPress := exerciseFixture(3, "Leg Press", "Legs, Quads", 12)
	pool := []models.Exercise{pushUp, benchPress, legPress}

	names := func(exs []models.Exercise) []string {
		var out []string
		for _, ex := range exs {
			out = append(out, ex.Name)
		}
		return out
	}

	tests := []struct {
		name      string
		available []uint
		want      []string
	}{
		{"no equipment keeps bodyweight only", nil, []string{"Push-up"}},
		{"full coverage", []uint{10, 11, 12}, []string{"Push-up", "Bench Press", "Leg Press"}},
		{"partial coverage disqualifies", []uint{10}, []string{"Push-up"}},
		{"single machine", []uint{12}, []string{"Push-up", "Leg Press"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(FilterByEquipment(pool, tt.available))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterByEquipment_IgnoresSecondaryLinks(t *testing.T) {
	ex := exerciseFixture(1, "Goblet Squat", "Legs")
	ex.ExerciseEquipment = append(ex.ExerciseEquipment, models.ExerciseEquipment{
		ExerciseID:  1,
		EquipmentID: 99,
		IsPrimary:   false,
	})

	got := FilterByEquipment([]models.Exercise{ex}, nil)
	if len(got) != 1 {
		t.Fatalf("optional equipment must not disqualify, got %d exercises", len(got))
	}
}

func TestPickForFocus(t *testing.T) {
	pool := []models.Exercise{
		exerciseFixture(1, "Bench Press", "Chest, Triceps, Shoulders"),
		exerciseFixture(2, "Incline Press", "Chest, Shoulders"),
		exerciseFixture(3, "Cable Fly", "Chest"),
		exerciseFixture(4, "Push-up", "Chest, Triceps"),
		exerciseFixture(5, "Barbell Row", "Back, Biceps"),
		exerciseFixture(6, "Squat", "Legs, Quads, Glutes"),
	}

	t.Run("caps at three per muscle group", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		got := pickForFocus(pool, "Chest", rng)
		if len(got) != 3 {
			t.Fatalf("got %d exercises, want 3", len(got))
		}
		for _, ex := range got {
			if !strings.Contains(strings.ToLower(ex.MuscleGroup), "chest") {
				t.Errorf("%q does not train chest", ex.Name)
			}
		}
	})

	t.Run("token order preserved", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		got := pickForFocus(pool, "Back, Legs", rng)
		if len(got) != 2 {
			t.Fatalf("got %d exercises, want 2", len(got))
		}
		if got[0].Name != "Barbell Row" || got[1].Name != "Squat" {
			t.Errorf("got %q then %q", got[0].Name, got[1].Name)
		}
	})

	t.Run("deterministic under a fixed seed", func(t *testing.T) {
		a := pickForFocus(pool, "Chest, Back", rand.New(rand.NewSource(7)))
		b := pickForFocus(pool, "Chest, Back", rand.New(rand.NewSource(7)))
		if !reflect.DeepEqual(a, b) {
			t.Errorf("same seed produced different selections:\n%v\n%v", a, b)
		}
	})

	t.Run("no matches yields empty", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		if got := pickForFocus(pool, "Neck", rng); len(got) != 0 {
			t.Errorf("got %d exercises, want 0", len(got))
		}
	})
}

func TestValidatePlanDays(t *testing.T) {
	valid := []AIPlanDay{
		{DayNumber: 1, DayName: "Push", Focus: "Chest", Exercises: []AIPlanExercise{
			{Name: "Bench Press", MuscleGroup: "Chest", Sets: 3, Reps: "8-12"},
		}},
		{DayNumber: 2, DayName: "Rest", IsRestDay: true},
	}

	t.Run("valid passes both levels", func(t *testing.T) {
		for _, level := range []Strictness{StrictDays, LenientDays} {
			if _, err := validatePlanDays(valid, level); err != nil {
				t.Errorf("level %v: %v", level, err)
			}
		}
	})

	t.Run("empty days always errors", func(t *testing.T) {
		for _, level := range []Strictness{StrictDays, LenientDays} {
			if _, err := validatePlanDays(nil, level); err == nil {
				t.Errorf("level %v: expected error", level)
			}
		}
	})

	t.Run("strict rejects what lenient repairs", func(t *testing.T) {
		broken := []AIPlanDay{
			{DayName: "Push", Exercises: []AIPlanExercise{{Name: "Bench Press"}}},
		}

		if _, err := validatePlanDays(broken, StrictDays); err == nil {
			t.Fatal("strict must reject a day without a day number")
		}

		got, err := validatePlanDays(broken, LenientDays)
		if err != nil {
			t.Fatalf("lenient: %v", err)
		}
		if got[0].DayNumber != 1 {
			t.Errorf("day number defaulted to %d", got[0].DayNumber)
		}
		if got[0].Exercises[0].Sets != 3 || got[0].Exercises[0].Reps != "10" {
			t.Errorf("exercise defaults = %+v", got[0].Exercises[0])
		}
	})

	t.Run("lenient drops nameless exercises", func(t *testing.T) {
		days := []AIPlanDay{
			{DayNumber: 1, DayName: "Push", Exercises: []AIPlanExercise{
				{Sets: 3, Reps: "10"},
				{Name: "Dip", Sets: 3, Reps: "10"},
			}},
		}
		got, err := validatePlanDays(days, LenientDays)
		if err != nil {
			t.Fatal(err)
		}
		if len(got[0].Exercises) != 1 || got[0].Exercises[0].Name != "Dip" {
			t.Errorf("exercises = %+v", got[0].Exercises)
		}
	})

	t.Run("rest days shed exercises", func(t *testing.T) {
		days := []AIPlanDay{
			{DayNumber: 1, DayName: "Rest", IsRestDay: true, Exercises: []AIPlanExercise{
				{Name: "Bench Press", Sets: 3, Reps: "10"},
			}},
		}
		got, err := validatePlanDays(days, StrictDays)
		if err != nil {
			t.Fatal(err)
		}
		if len(got[0].Exercises) != 0 {
			t.Errorf("rest day kept %d exercises", len(got[0].Exercises))
		}
	})

	t.Run("strict failure is an upstream error", func(t *testing.T) {
		_, err := validatePlanDays(nil, StrictDays)
		if utils.StatusOf(err) != 502 {
			t.Errorf("status = %d, want 502", utils.StatusOf(err))
		}
	})
}

func TestParseAIPlanDays(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		days, err := parseAIPlanDays(`{"days": [{"dayNumber": 1, "dayName": "Push", "exercises": []}]}`)
		if err != nil {
			t.Fatal(err)
		}
		if len(days) != 1 || days[0].DayName != "Push" {
			t.Errorf("days = %+v", days)
		}
	})

	t.Run("not JSON", func(t *testing.T) {
		if _, err := parseAIPlanDays("I suggest you rest this week."); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("object without days is parseable but empty", func(t *testing.T) {
		days, err := parseAIPlanDays(`{"plan": []}`)
		if err != nil {
			t.Fatalf("missing key must not be a parse error: %v", err)
		}
		if days != nil {
			t.Errorf("days = %+v, want nil", days)
		}
	})

	t.Run("days not an array", func(t *testing.T) {
		if _, err := parseAIPlanDays(`{"days": "monday"}`); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestFallbackPlanDays(t *testing.T) {
	t.Run("mirrors the split template", func(t *testing.T) {
		days := FallbackPlanDays("ppl", "strength")
		if len(days) != 7 {
			t.Fatalf("got %d days, want 7", len(days))
		}
		for i, day := range days {
			tmpl := SplitDays("ppl")[i]
			if day.DayName != tmpl.DayName || day.IsRestDay != tmpl.IsRestDay {
				t.Errorf("day %d = %q rest=%v, want %q rest=%v", day.DayNumber, day.DayName, day.IsRestDay, tmpl.DayName, tmpl.IsRestDay)
			}
			if day.IsRestDay && len(day.Exercises) != 0 {
				t.Errorf("rest day %d has exercises", day.DayNumber)
			}
			if !day.IsRestDay && len(day.Exercises) == 0 {
				t.Errorf("training day %d has no exercises", day.DayNumber)
			}
		}
	})

	t.Run("volume follows goal", func(t *testing.T) {
		days := FallbackPlanDays("full_body", "fat_loss")
		for _, day := range days {
			for _, ex := range day.Exercises {
				if ex.Sets != 3 || ex.Reps != "12-15" {
					t.Errorf("%q prescribed %d x %q", ex.Name, ex.Sets, ex.Reps)
				}
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := FallbackPlanDays("ppl", "muscle_gain")
		b := FallbackPlanDays("ppl", "muscle_gain")
		if !reflect.DeepEqual(a, b) {
			t.Error("fallback template must not vary between calls")
		}
	})

	t.Run("validates strictly", func(t *testing.T) {
		if _, err := validatePlanDays(FallbackPlanDays("ppl", ""), StrictDays); err != nil {
			t.Errorf("fallback template failed validation: %v", err)
		}
	})
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1) // in-memory DB lives on a single connection
	if err := db.AutoMigrate(&models.WorkoutProgress{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMarkExerciseComplete_Upsert(t *testing.T) {
	db := openTestDB(t)
	svc := NewWorkoutService(db, nil, rand.New(rand.NewSource(1)))

	input := ProgressInput{
		PlanID:     1,
		ExerciseID: 5,
		DayIndex:   2,
		WeekNumber: 1,
		Date:       time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC),
		Completed:  true,
	}

	first, err := svc.MarkExerciseComplete(42, input)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Completed || first.CompletedAt == nil {
		t.Fatalf("first write = %+v", first)
	}

	// same user, exercise and calendar day, later that day, now unchecked
	input.Date = time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	input.Completed = false
	second, err := svc.MarkExerciseComplete(42, input)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("second write created row %d, want update of row %d", second.ID, first.ID)
	}
	if second.Completed || second.CompletedAt != nil {
		t.Errorf("second write = %+v, want completion cleared", second)
	}

	var count int64
	if err := db.Model(&models.WorkoutProgress{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("got %d rows for one natural key, want 1", count)
	}

	// a different exercise on the same day is its own row
	other := input
	other.ExerciseID = 6
	if _, err := svc.MarkExerciseComplete(42, other); err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&models.WorkoutProgress{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("got %d rows after distinct exercise, want 2", count)
	}
}

func TestMarkExerciseComplete_TruncatesDate(t *testing.T) {
	db := openTestDB(t)
	svc := NewWorkoutService(db, nil, rand.New(rand.NewSource(1)))

	got, err := svc.MarkExerciseComplete(42, ProgressInput{
		ExerciseID: 5,
		Date:       time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC),
		Completed:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if !got.WorkoutDate.Equal(want) {
		t.Errorf("workout date = %v, want %v", got.WorkoutDate, want)
	}
}
