package valueobject

import (
	"database/sql/driver"
	"fmt"
	"net/mail"
	"strings"
)

// Email is a value object representing a validated email address
type Email struct {
	address string
}

// NewEmail creates a new Email after validating the address
func NewEmail(address string) (Email, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Email{}, fmt.Errorf("email address cannot be empty")
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return Email{}, fmt.Errorf("invalid email address %q: %w", address, err)
	}
	return Email{address: strings.ToLower(parsed.Address)}, nil
}

// Address returns the normalized email address
func (e Email) Address() string {
	return e.address
}

// IsZero returns true if the email is empty
func (e Email) IsZero() bool {
	return e.address == ""
}

// String returns the email address
func (e Email) String() string {
	return e.address
}

// MarshalJSON implements json.Marshaler
func (e Email) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", e.address)), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Email) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" {
		e.address = ""
		return nil
	}
	parsed, err := NewEmail(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (e Email) Value() (driver.Value, error) {
	return e.address, nil
}

// Scan implements sql.Scanner for database retrieval
func (e *Email) Scan(value any) error {
	if value == nil {
		e.address = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		e.address = v
	case []byte:
		e.address = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Email", value)
	}
	return nil
}
