package services

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"fitplan/models"
	"fitplan/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DetectedEquipment is one normalized item out of an equipment scan. IDs are
// ephemeral per invocation; clients map picks back onto catalog equipment.
type DetectedEquipment struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Icon       string  `json:"icon"`
}

type EquipmentService struct {
	db       *gorm.DB
	ai       *AIService
	uploader *utils.S3Uploader // optional, scan archival only
}

func NewEquipmentService(db *gorm.DB, ai *AIService, uploader *utils.S3Uploader) *EquipmentService {
	return &EquipmentService{db: db, ai: ai, uploader: uploader}
}

func (s *EquipmentService) GetAllEquipment() ([]models.Equipment, error) {
	var equipment []models.Equipment
	err := s.db.Find(&equipment).Error
	return equipment, err
}

// ScanEquipment runs the uploaded images through the vision model and
// normalizes whatever comes back into a clean equipment list.
func (s *EquipmentService) ScanEquipment(ctx context.Context, images []ScanImage) ([]DetectedEquipment, error) {
	if !s.ai.Enabled() {
		return nil, utils.NewUpstreamError("AI API key not configured")
	}

	s.archiveScanImages(ctx, images)

	raw, err := s.ai.ScanEquipment(ctx, images)
	if err != nil {
		log.Printf("equipment scan failed: %v", err)
		return nil, utils.NewUpstreamError("Failed to analyze image")
	}

	return NormalizeScanPayload(raw), nil
}

func (s *EquipmentService) archiveScanImages(ctx context.Context, images []ScanImage) {
	if s.uploader == nil {
		return
	}
	for _, img := range images {
		if _, err := s.uploader.UploadImage(ctx, img.Data, img.MimeType, "equipment-scans/scan"); err != nil {
			log.Printf("scan image archive failed: %v", err)
		}
	}
}

// AddUserEquipment links the user to each equipment id. The whole batch is one
// transaction: all upserts apply or none do.
func (s *EquipmentService) AddUserEquipment(userID uint, equipmentIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, eqID := range equipmentIDs {
			link := models.UserEquipment{UserID: userID, EquipmentID: eqID}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "equipment_id"}},
				DoNothing: true,
			}).Create(&link).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *EquipmentService) GetUserEquipment(userID uint) ([]models.UserEquipment, error) {
	var links []models.UserEquipment
	err := s.db.Preload("Equipment").Where("user_id = ?", userID).Find(&links).Error
	return links, err
}

var jsonBlockRe = regexp.MustCompile("(?s)```json\\n(.*?)\\n```")

// NormalizeScanPayload parses the model's text payload and coerces it into a
// clean equipment list. The input is fully untrusted: besides well-formed
// object arrays the model has been observed to return flattened key/value
// arrays, double-encoded JSON strings, bare strings, stray numbers and nulls.
func NormalizeScanPayload(text string) []DetectedEquipment {
	var payload struct {
		Equipment []any `json:"equipment"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		// model sometimes wraps the JSON in a markdown fence
		m := jsonBlockRe.FindStringSubmatch(text)
		if m == nil {
			return []DetectedEquipment{}
		}
		if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
			return []DetectedEquipment{}
		}
	}
	return normalizeDetectedList(payload.Equipment)
}

func normalizeDetectedList(raw []any) []DetectedEquipment {
	list := make([]any, 0, len(raw))
	for _, item := range raw {
		if item != nil {
			list = append(list, item)
		}
	}

	if isFlatList(list) {
		if rebuilt := reconstructFlatList(list); len(rebuilt) > 0 {
			list = rebuilt
		}
	}

	out := []DetectedEquipment{}
	for _, item := range list {
		obj := coerceScanItem(item)
		if obj == nil {
			continue
		}

		category, _ := obj["category"].(string)
		if category == "" {
			category = models.CategoryMachines
		}
		name, _ := obj["name"].(string)
		if name == "" {
			name = "Unknown Machine"
		}
		confidence, _ := obj["confidence"].(float64)
		if confidence == 0 {
			confidence = 0.8
		}

		out = append(out, DetectedEquipment{
			ID:         uuid.NewString(),
			Name:       name,
			Category:   category,
			Confidence: confidence,
			Icon:       iconForCategory(category),
		})
	}
	return out
}

// isFlatList detects the flattened failure mode where keys and values arrive
// as scalar siblings, e.g. ["name","Leg Press","category","machines",...].
func isFlatList(list []any) bool {
	if len(list) == 0 {
		return false
	}
	hasKeyMarker := false
	hasNonObject := false
	for _, item := range list {
		if s, ok := item.(string); ok && (s == "name" || s == "category") {
			hasKeyMarker = true
		}
		switch item.(type) {
		case map[string]any, []any:
		default:
			hasNonObject = true
		}
	}
	return hasKeyMarker && hasNonObject
}

// reconstructFlatList rebuilds objects from a flattened list by scanning left
// to right: a "name" marker starts a new accumulator (flushing any populated
// one), and "category"/"confidence" markers consume the following value.
func reconstructFlatList(list []any) []any {
	var rebuilt []any
	temp := map[string]any{}

	for i := 0; i < len(list); i++ {
		val := list[i]

		// skip numbers that look like stray vector garbage; exactly 0 and 1
		// and in-range confidences pass through
		if num, ok := val.(float64); ok && num != 0 && num != 1 && (num > 1 || num < 0) {
			continue
		}

		switch val {
		case "name":
			if temp["name"] != nil {
				rebuilt = append(rebuilt, temp)
				temp = map[string]any{}
			}
			if i+1 < len(list) {
				temp["name"] = list[i+1]
				i++
			}
		case "category":
			if i+1 < len(list) {
				temp["category"] = list[i+1]
				i++
			}
		case "confidence":
			if i+1 < len(list) {
				temp["confidence"] = list[i+1]
				i++
			}
		}
	}
	if temp["name"] != nil {
		rebuilt = append(rebuilt, temp)
	}
	return rebuilt
}

// coerceScanItem turns one surviving element into an object, or nil to drop it.
func coerceScanItem(item any) map[string]any {
	switch v := item.(type) {
	case map[string]any:
		return v
	case string:
		if strings.HasPrefix(strings.TrimSpace(v), "{") {
			// double-encoded JSON object
			var obj map[string]any
			if err := json.Unmarshal([]byte(v), &obj); err == nil {
				return obj
			}
			return map[string]any{"name": v}
		}
		if v == "name" || v == "category" || v == "icon" {
			return nil // leftover key fragment
		}
		return map[string]any{"name": v, "category": models.CategoryMachines, "confidence": 0.9}
	default:
		// bare numbers, arrays, anything else
		return nil
	}
}

func iconForCategory(category string) string {
	switch category {
	case models.CategoryFreeWeights:
		return "🏋️"
	case models.CategoryMachines:
		return "⚙️"
	case models.CategoryCardio:
		return "🏃"
	case models.CategoryCable:
		return "🔗"
	case models.CategoryBodyweight:
		return "💪"
	default:
		return "🏋️"
	}
}
