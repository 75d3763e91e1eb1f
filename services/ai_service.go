package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Reference list given to the vision model so detected items come back with
// canonical names where possible.
const standardEquipmentList = `
- Free Weights: Barbell, Dumbbells, Kettlebells, EZ Bar, Bench Press, Incline Bench Press, Decline Bench Press, Squat Rack, Power Rack, Smith Machine, Preacher Curl Bench
- Machines: Leg Press, Leg Extension, Leg Curl, Hack Squat, Chest Press Machine, Shoulder Press Machine, Lat Pulldown, Seated Cable Row, Pec Deck / Fly Machine, Assisted Pull-up Machine, Calf Raise Machine, Abdominal Crunch Machine, Hip Abduction/Adduction
- Cable: Cable Crossover, Functional Trainer
- Cardio: Treadmill, Elliptical, Stationary Bike, Rowing Machine, Stair Climber, Assault Bike, SkiErg
- Bodyweight: Pull-up Bar, Dip Station, Parallel Bars, Roman Chair / Back Extension, Plyometric Box, TRX / Suspension Trainer, Gymnastic Rings
- Other: Medicine Ball, Slam Ball, Battle Ropes, Landmine Attachment, Trap Bar / Hex Bar
`

const scanPrompt = `Task: Identify all gym equipment in the provided images.

Instructions:
1. Provide a unique list of found items.
2. For each item, use the most accurate name from this list if it matches:
` + standardEquipmentList + `
3. If no match, provide a clear, descriptive name.
4. CRITICAL: Never use a category name (e.g. 'machines', 'cardio') or a technical field name (e.g. 'confidence', 'name') as the equipment name itself.
5. Consolidate items detected across multiple images into one single list without duplicates.

Format Requirement:
Return a JSON object with the key "equipment", which is an array of objects.
Example structure:
{
  "equipment": [
    { "name": "Leg Press", "category": "machines", "confidence": 0.99 },
    { "name": "Dumbbells", "category": "free_weights", "confidence": 0.95 }
  ]
}`

type ScannedEquipmentItem struct {
	Name       string  `json:"name" jsonschema_description:"Equipment name"`
	Category   string  `json:"category" jsonschema:"enum=free_weights,enum=machines,enum=cable,enum=cardio,enum=bodyweight,enum=other" jsonschema_description:"Equipment category"`
	Confidence float64 `json:"confidence" jsonschema_description:"Detection confidence between 0 and 1"`
}

type EquipmentScanResponse struct {
	Equipment []ScannedEquipmentItem `json:"equipment" jsonschema_description:"Unique list of detected equipment"`
}

type AIPlanExercise struct {
	Name        string `json:"name" jsonschema_description:"Exercise name"`
	MuscleGroup string `json:"muscleGroup" jsonschema_description:"Comma-delimited muscle groups the exercise trains"`
	Sets        int    `json:"sets" jsonschema_description:"Prescribed number of sets"`
	Reps        string `json:"reps" jsonschema_description:"Prescribed reps, a number or a range like 8-12"`
	Notes       string `json:"notes" jsonschema_description:"Short coaching cue"`
}

type AIPlanDay struct {
	DayNumber int              `json:"dayNumber" jsonschema_description:"1-based day of the week"`
	DayName   string           `json:"dayName" jsonschema_description:"Display name, e.g. Push"`
	Focus     string           `json:"focus" jsonschema_description:"Comma-delimited muscle focus"`
	IsRestDay bool             `json:"isRestDay"`
	Exercises []AIPlanExercise `json:"exercises"`
}

type AIPlanResponse struct {
	Days []AIPlanDay `json:"days" jsonschema_description:"Exactly 7 days covering one week"`
}

func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var (
	equipmentScanSchema = GenerateSchema[EquipmentScanResponse]()
	aiPlanSchema        = GenerateSchema[AIPlanResponse]()
)

// ScanImage is one uploaded photo handed to the vision model.
type ScanImage struct {
	Data     []byte
	MimeType string
}

// AIService wraps the generative model used for equipment scans and AI plan
// generation. A zero-value service (no API key) reports Enabled() == false and
// every call fails, so callers decide between erroring and falling back.
type AIService struct {
	client  openai.Client
	model   string
	enabled bool
}

func NewAIService(apiKey, baseURL, model string) *AIService {
	if apiKey == "" {
		return &AIService{}
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AIService{
		client:  openai.NewClient(opts...),
		model:   model,
		enabled: true,
	}
}

func (s *AIService) Enabled() bool {
	return s.enabled
}

// ScanEquipment sends the images plus the scan prompt and returns the raw text
// payload. The payload is untrusted; normalization happens in EquipmentService.
func (s *AIService) ScanEquipment(ctx context.Context, images []ScanImage) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("AI client not configured")
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(scanPrompt),
	}
	for _, img := range images {
		uri := fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: uri,
		}))
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "EquipmentScan",
		Description: openai.String("Gym equipment detected in the provided images"),
		Schema:      equipmentScanSchema,
		Strict:      openai.Bool(true),
	}

	chat, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
	})
	if err != nil {
		return "", fmt.Errorf("scan request failed: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("scan returned no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

// GeneratePlan asks the model for a full week constrained to the plan schema
// and returns the raw text payload.
func (s *AIService) GeneratePlan(ctx context.Context, prompt string) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("AI client not configured")
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "WorkoutWeek",
		Description: openai.String("A 7-day workout plan"),
		Schema:      aiPlanSchema,
		Strict:      openai.Bool(true),
	}

	chat, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a strength coach generating weekly workout plans. Respond only with JSON matching the declared schema."),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
	})
	if err != nil {
		return "", fmt.Errorf("plan request failed: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("plan request returned no choices")
	}
	return chat.Choices[0].Message.Content, nil
}
