package auth

import "time"

// User is one cloud-sync account. Passwords are stored only as bcrypt hashes.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public is the user shape safe to return over the API.
type Public struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
