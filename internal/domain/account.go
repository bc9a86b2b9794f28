package domain

// Account is the public view of a registered user. The password hash never leaves
// the persistence layer.
type Account struct {
	NationalID  NationalID
	Name        string
	PhoneNumber string
	Email       string
	Role        Role
}

// SharedCredential names the account whose password authenticates a vehicle.
//
// Vehicles do not hold credentials of their own; they reuse the owner's password.
// Keeping the relation explicit means a vehicle-specific credential can replace it
// without touching the account record.
type SharedCredential struct {
	AccountID NationalID
}

// Vehicle is a vehicle registered under an account.
type Vehicle struct {
	NationalID  NationalID
	Vehicle     string
	VehicleType string

	Credential SharedCredential
}
