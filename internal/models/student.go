package models

import (
	"github.com/google/uuid"
)

type Student struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"nombre"`
	Email string    `db:"email" json:"mail"`
}

type StudentProvider struct {
	StudentID uuid.UUID `db:"student_id" json:"-"`
	Provider  string    `db:"provider" json:"proveedor"`
}
