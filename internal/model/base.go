package model

import "github.com/google/uuid"

// assignID gives a new row its primary key before insert, so the same
// models work on databases without gen_random_uuid().
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
