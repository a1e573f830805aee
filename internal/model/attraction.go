package model

type AttractionType string

const (
	AttractionHistoric      AttractionType = "historic"
	AttractionCultural      AttractionType = "cultural"
	AttractionNatural       AttractionType = "natural"
	AttractionReligious     AttractionType = "religious"
	AttractionEntertainment AttractionType = "entertainment"
)

// swagger:model Attraction
type Attraction struct {
	BaseModel
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Type        AttractionType `gorm:"size:30;index" json:"type"`
	Region      string         `gorm:"size:100;index" json:"region"`
	ImageURL    string         `gorm:"size:500" json:"imageUrl"`
	Rating      float64        `json:"rating"`
	// Zero for system-seeded attractions.
	CreatedByUserID uint `gorm:"index" json:"createdByUserId"`
	IsApproved      bool `gorm:"default:false;index" json:"isApproved"`
}

func (Attraction) TableName() string {
	return "attractions"
}
