package models

import "time"

type Course struct {
	ID          int64
	Title       string
	Description *string
	Price       float64
	CoverImage  *string
	IsPublished bool
	CreatedAt   time.Time
}

// Chapter belongs to exactly one Course.
type Chapter struct {
	ID         int64
	CourseID   int64
	Title      string
	OrderIndex int
}

// Enrollment records that a user bought a course.
type Enrollment struct {
	ID          int64
	UserID      int64
	CourseID    int64
	PurchasedAt time.Time
}
