package core

import "time"

type Employee struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Position  string     `json:"position,omitempty"`
	Branch    string     `json:"branch,omitempty"`
	HireDate  *time.Time `json:"hireDate,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
}
