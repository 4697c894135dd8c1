package domain

// Contact is a person in the address book.
type Contact struct {
	BaseModel
	FirstName string   `gorm:"size:100;not null" json:"first_name"`
	LastName  string   `gorm:"size:100;not null" json:"last_name"`
	Email     string   `gorm:"size:255;index" json:"email"`
	Phone     string   `gorm:"size:50" json:"phone"`
	CompanyID *uint    `json:"company_id"`
	Company   *Company `json:"company,omitempty"`
	Notes     []Note   `json:"notes,omitempty"`
}

// Company is the organization a contact works for.
type Company struct {
	BaseModel
	Name string `gorm:"size:200;not null" json:"name"`
}

// Note is a free-text remark attached to a contact.
type Note struct {
	BaseModel
	ContactID uint   `gorm:"index;not null" json:"contact_id"`
	Body      string `gorm:"type:text" json:"body"`
}
