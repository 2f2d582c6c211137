package models

import "github.com/google/uuid"

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Admin{},
		&RefreshToken{},
		&Course{},
		&Assignment{},
		&Question{},
		&Enrollment{},
		&AssignmentAttempt{},
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
