package models

import "time"

type Student struct {
	ID          string    `json:"id"`
	StudentCode string    `json:"student_code"`
	Name        string    `json:"name"`
	DOB         string    `json:"dob"` // YYYY-MM-DD
	Gender      string    `json:"gender"`
	Phone       string    `json:"phone"`
	RoomID      string    `json:"room_id"`
	University  string    `json:"university"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Student) Occupant() Occupant {
	return Occupant{Kind: OccupantStudent, ID: s.ID, RoomID: s.RoomID}
}

// CreateStudentRequest represents the request body for registering a student
type CreateStudentRequest struct {
	StudentCode string `json:"student_code" validate:"required,max=32"`
	Name        string `json:"name" validate:"required,max=100"`
	DOB         string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,max=16"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	RoomID      string `json:"room_id" validate:"required"`
	University  string `json:"university" validate:"omitempty,max=200"`
}

// UpdateStudentRequest is a partial update; a changed RoomID is a move.
type UpdateStudentRequest struct {
	StudentCode *string `json:"student_code" validate:"omitempty,min=1,max=32"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	DOB         *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender" validate:"omitempty,max=16"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	RoomID      *string `json:"room_id" validate:"omitempty,min=1"`
	University  *string `json:"university" validate:"omitempty,max=200"`
}

func (u *UpdateStudentRequest) Apply(s *Student) {
	if u.StudentCode != nil {
		s.StudentCode = *u.StudentCode
	}
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.DOB != nil {
		s.DOB = *u.DOB
	}
	if u.Gender != nil {
		s.Gender = *u.Gender
	}
	if u.Phone != nil {
		s.Phone = *u.Phone
	}
	if u.RoomID != nil {
		s.RoomID = *u.RoomID
	}
	if u.University != nil {
		s.University = *u.University
	}
}
