package services

import (
	"sort"

	"fitplan/models"
	"fitplan/utils"

	"gorm.io/gorm"
)

// GymWithDistance is a gym row annotated with its distance in meters from the
// query point.
type GymWithDistance struct {
	models.Gym
	Distance float64 `json:"distance"`
}

type GymService struct {
	db *gorm.DB
}

func NewGymService(db *gorm.DB) *GymService {
	return &GymService{db: db}
}

// GetNearbyGyms fetches all gyms and filters by Haversine distance. O(n) over
// the catalog; fine at current scale, a spatial index would replace this.
func (s *GymService) GetNearbyGyms(lat, lng, radiusMeters float64) ([]GymWithDistance, error) {
	var gyms []models.Gym
	if err := s.db.Find(&gyms).Error; err != nil {
		return nil, err
	}
	return GymsWithinRadius(gyms, lat, lng, radiusMeters), nil
}

// GymsWithinRadius keeps gyms within radiusMeters of (lat, lng), sorted by
// ascending distance.
func GymsWithinRadius(gyms []models.Gym, lat, lng, radiusMeters float64) []GymWithDistance {
	out := []GymWithDistance{}
	for _, gym := range gyms {
		d := utils.HaversineDistance(lat, lng, gym.Latitude, gym.Longitude)
		if d <= radiusMeters {
			out = append(out, GymWithDistance{Gym: gym, Distance: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}

func (s *GymService) GetGym(id uint) (*models.Gym, error) {
	var gym models.Gym
	err := s.db.Preload("UserEquipment").First(&gym, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Gym not found")
		}
		return nil, err
	}
	return &gym, nil
}
