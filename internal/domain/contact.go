package domain

import "time"

// Contact is the domain model for a person known to the support provider's
// directory. A contact without an email is provisional: a record minted solely
// to hold a phone number until the person registers properly.
type Contact struct {
	ID         string
	ExternalID string
	Name       string
	Phone      string
	Email      string
	CreatedAt  time.Time
}

// Provisional reports whether the contact is a phone-only directory record.
func (c *Contact) Provisional() bool {
	return c.Email == ""
}
