package models

// Donation is a one-off gift recorded from the donate form.
type Donation struct {
	ID      uint    `gorm:"primaryKey"          json:"id"`
	Name    string  `gorm:"size:100;not null"   json:"name"`
	Amount  float64 `gorm:"not null"            json:"amount"`
	Email   *string `gorm:"size:120"            json:"email"`
	Message *string `gorm:"type:text"           json:"message"`
}

// Registration is an event sign-up with a postal address.
type Registration struct {
	ID             uint    `gorm:"primaryKey"         json:"id"`
	FirstName      string  `gorm:"size:50;not null"   json:"first_name"`
	LastName       string  `gorm:"size:50;not null"   json:"last_name"`
	MiddleName     *string `gorm:"size:50"            json:"middle_name"`
	Email          string  `gorm:"size:120;not null"  json:"email"`
	Contact        string  `gorm:"size:20;not null"   json:"contact"`
	PrimaryAddress string  `gorm:"size:200;not null"  json:"primary_address"`
	AptUnitSuite   *string `gorm:"size:50"            json:"apt_unit_suite"`
	City           string  `gorm:"size:100;not null"  json:"city"`
	State          string  `gorm:"size:50;not null"   json:"state"`
	Zipcode        string  `gorm:"size:10;not null"   json:"zipcode"`
}

// Contact is a message left through the contact form.
type Contact struct {
	ID      uint   `gorm:"primaryKey"        json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:120;not null" json:"email"`
	Message string `gorm:"type:text;not null" json:"message"`
}

// RegistrationSummary is the listing projection of a Registration.
type RegistrationSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
}
