// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, service and utils can all import types without
// depending on each other.
package types

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON.
//     The API uses camelCase keys: firstName, lastName, dateOfBirth.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package (see internal/validation for the custom tags).
//
// ID is a pointer so that it encodes as null before the record is
// persisted. The server assigns it; any value sent by a client is ignored.
type Student struct {
	ID          *int64 `json:"id"`
	FirstName   string `json:"firstName"   validate:"notblank"`
	LastName    string `json:"lastName"    validate:"notblank"`
	Email       string `json:"email"       validate:"notblank,emailshape"`
	DateOfBirth Date   `json:"dateOfBirth" validate:"required,pastdate"`
}

// Sortable property names accepted by the list endpoint.
const (
	PropertyID          = "id"
	PropertyFirstName   = "firstName"
	PropertyLastName    = "lastName"
	PropertyEmail       = "email"
	PropertyDateOfBirth = "dateOfBirth"
)

// SortableProperties lists every Student property a client may sort by.
var SortableProperties = []string{
	PropertyID,
	PropertyFirstName,
	PropertyLastName,
	PropertyEmail,
	PropertyDateOfBirth,
}

// IDValue returns the identifier or 0 when the student is not persisted yet.
func (s Student) IDValue() int64 {
	if s.ID == nil {
		return 0
	}
	return *s.ID
}

// Int64Ptr is a small helper for building students in code and tests.
func Int64Ptr(v int64) *int64 {
	return &v
}
