package domain

// User is an account created at login.
type User struct {
	UserId string

	// display name the account was created with. Not unique.
	Name string
}

func (u User) Equal(o User) bool {
	return u.UserId == o.UserId && u.Name == o.Name
}
