package model

// QcmResult is one student attempt at a quiz. Results are append-only;
// several results per (student, quiz) pair are allowed.
// swagger:model QcmResult
type QcmResult struct {
	BaseModel
	Score    int  `gorm:"not null" json:"score"`
	MaxScore int  `gorm:"not null" json:"maxScore"`
	UserID   uint `gorm:"index;not null" json:"userId"`
	QcmID    uint `gorm:"index;not null" json:"qcmId"`
}

func (QcmResult) TableName() string {
	return "qcm_results"
}
