package model

import "time"

// Qcm is a generated multiple-choice quiz. It belongs to exactly one content
// item: DocumentID and VideoID are mutually exclusive optional associations.
// Regeneration overwrites Content and GeneratedAt in place; the row id stays
// stable across overwrites.
// swagger:model Qcm
type Qcm struct {
	BaseModel
	Content     QuestionList `gorm:"type:json" json:"content"`
	GeneratedAt time.Time    `json:"generatedAt"`
	DocumentID  *uint        `gorm:"uniqueIndex" json:"documentId,omitempty"`
	VideoID     *uint        `gorm:"uniqueIndex" json:"videoId,omitempty"`
}

func (Qcm) TableName() string {
	return "qcms"
}
