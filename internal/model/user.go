package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

// swagger:model User
type User struct {
	BaseModel
	FirstName string   `gorm:"size:100;not null" json:"firstname"`
	LastName  string   `gorm:"size:100;not null" json:"lastname"`
	Email     string   `gorm:"size:100;unique;not null" json:"email"`
	Password  string   `gorm:"size:100;not null" json:"-"`
	Role      UserRole `gorm:"type:enum('student','teacher');default:'student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}
