package company

// CreateRequest for POST /admin/companies
type CreateRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Description   string `json:"description" validate:"max=2000"`
	ContactPerson string `json:"contact_person" validate:"max=200"`
}

// CreateResponse carries the API key, which is shown only once.
type CreateResponse struct {
	Company *Company `json:"company"`
	APIKey  string   `json:"api_key"`
}
