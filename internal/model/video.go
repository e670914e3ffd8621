package model

// swagger:model Video
type Video struct {
	BaseModel
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Filename    string  `gorm:"size:255;not null" json:"filename"`
	Duration    float64 `gorm:"default:0" json:"duration"`
	Thumbnail   string  `gorm:"size:255" json:"thumbnail"`
	UserID      uint    `gorm:"index" json:"userId"`
	Qcm         *Qcm    `gorm:"foreignKey:VideoID" json:"qcm,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
