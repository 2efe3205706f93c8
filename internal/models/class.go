package models

import "time"

type ClassAssignment struct {
	ID         string
	TeacherID  string
	ClassName  string
	Section    string
	Subject    string
	IsHomeroom bool
	CreatedAt  time.Time
}
