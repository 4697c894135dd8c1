package contact

import "github.com/simp-lee/gospec/internal/domain"

// ContactRequest is the body of create and update requests.
type ContactRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	Phone     string `json:"phone" binding:"max=50"`
	CompanyID *uint  `json:"company_id" binding:"omitempty,min=1"`
}

// apply copies the request onto c. Identity and lifecycle fields are left
// untouched.
func (r *ContactRequest) apply(c *domain.Contact) {
	c.FirstName = r.FirstName
	c.LastName = r.LastName
	c.Email = r.Email
	c.Phone = r.Phone
	c.CompanyID = r.CompanyID
	c.Company = nil
}
