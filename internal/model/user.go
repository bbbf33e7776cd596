package model

import "time"

// User represents a renter as stored in the `users` table. Each field
// corresponds to a column in the database. The json tags are omitted here
// because these structs are primarily used internally by the repository
// layer; handlers define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – unique email address.
//  CPF          – unique national identifier.
//  BirthDate    – date of birth, used to derive the renter's age.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Email        string    // users.email
	CPF          string    // users.cpf
	BirthDate    time.Time // users.birth_date
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Age returns the user's age in whole years at the given instant. Partial
// years are truncated: the age only increments once the birthday anniversary
// has been reached. A birth date in the future yields zero.
func (u User) Age(at time.Time) int {
	years := at.Year() - u.BirthDate.Year()
	if years < 0 {
		return 0
	}
	// Step back one year when the anniversary has not been reached yet.
	if u.BirthDate.AddDate(years, 0, 0).After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
