package model

import "encoding/json"

// User is a backend user as listed by the user directory.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON accepts either _id or id.
func (u *User) UnmarshalJSON(data []byte) error {
	var w struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Role    Role   `json:"role"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*u = User{
		ID:    firstNonEmpty(w.MongoID, w.ID),
		Name:  w.Name,
		Email: w.Email,
		Role:  w.Role,
	}
	return nil
}

// SignupRequest is the body of a signup call.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
