package model

// Document is a teacher-uploaded file (PDF or other) that quizzes are
// generated from.
// swagger:model Document
type Document struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Filename    string `gorm:"size:255;not null" json:"filename"`
	UserID      uint   `gorm:"index" json:"userId"`
	Qcm         *Qcm   `gorm:"foreignKey:DocumentID" json:"qcm,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}
