package models

// SeedAccount is the literal fixture data an account is created from at
// startup. Pins are plain here; they are hashed when the account is stored.
type SeedAccount struct {
	Owner        string
	Movements    []float64
	InterestRate float64
	Pin          int
}

// SeedAccounts returns the fixed set of demo accounts the directory is
// initialized with at process start. Tests use the same fixture.
func SeedAccounts() []SeedAccount {
	return []SeedAccount{
		{
			Owner:        "Jonas Schmedtmann",
			Movements:    []float64{200, 450, -400, 3000, -650, -130, 70, 1300},
			InterestRate: 1.2,
			Pin:          1111,
		},
		{
			Owner:        "Jessica Davis",
			Movements:    []float64{5000, 3400, -150, -790, -3210, -1000, 8500, -30},
			InterestRate: 1.5,
			Pin:          2222,
		},
		{
			Owner:        "Steven Thomas Williams",
			Movements:    []float64{200, -200, 340, -300, -20, 50, 400, -460},
			InterestRate: 0.7,
			Pin:          3333,
		},
		{
			Owner:        "Sarah Smith",
			Movements:    []float64{430, 1000, 700, 50, 90},
			InterestRate: 1,
			Pin:          4444,
		},
	}
}
