package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind names the three catalog listings of the marketplace.
type Kind string

const (
	KindCourse    Kind = "course"
	KindClassroom Kind = "classroom"
	KindTeacher   Kind = "teacher"
)

// ParseKind accepts both the singular kind and the plural route segment
// ("courses", "classrooms", "teachers" or "partners").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "course", "courses":
		return KindCourse, nil
	case "classroom", "classrooms":
		return KindClassroom, nil
	case "teacher", "teachers", "partner", "partners":
		return KindTeacher, nil
	}
	return "", fmt.Errorf("unknown catalog kind %q", s)
}

// Level is the JLPT-style difficulty a course, classroom or teacher targets.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelElementary   Level = "Elementary"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelAll          Level = "All Levels"
)

var levels = []Level{LevelBeginner, LevelElementary, LevelIntermediate, LevelAdvanced, LevelAll}

// ParseLevel matches case-insensitively and accepts "all-levels" as an
// alias for LevelAll.
func ParseLevel(s string) (Level, error) {
	v := strings.TrimSpace(s)
	if strings.EqualFold(v, "all-levels") || strings.EqualFold(v, "all") {
		return LevelAll, nil
	}
	for _, l := range levels {
		if strings.EqualFold(v, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q", s)
}

// Status is the lifecycle flag of an item.  The allowed set depends on
// the kind: classrooms are upcoming/live/full, courses are
// active/draft/archived and teachers are available/unavailable.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusFull     Status = "full"

	StatusActive   Status = "active"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"

	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

var statusesByKind = map[Kind][]Status{
	KindClassroom: {StatusUpcoming, StatusLive, StatusFull},
	KindCourse:    {StatusActive, StatusDraft, StatusArchived},
	KindTeacher:   {StatusAvailable, StatusUnavailable},
}

// ParseStatus validates s against the statuses allowed for kind.
func ParseStatus(kind Kind, s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, st := range statusesByKind[kind] {
		if v == string(st) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown %s status %q", kind, s)
}

// Instructor is the denormalized teacher reference embedded in courses
// and classrooms.  It is not a foreign key.
type Instructor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Item is a single entry of a catalog listing.  Courses, classrooms and
// teachers share this shape; fields that do not apply to a kind are left
// at their zero value (e.g. MaxStudents for courses, StartsAt for
// teachers).
type Item struct {
	ID               uint64     `json:"id"`
	Kind             Kind       `json:"kind"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Instructor       Instructor `json:"instructor"`
	Level            Level      `json:"level"`
	Category         string     `json:"category"`
	Status           Status     `json:"status"`
	Price            float64    `json:"price"`
	Rating           float64    `json:"rating"`
	StudentsCount    int        `json:"studentsCount"`
	EnrolledStudents int        `json:"enrolledStudents,omitempty"`
	MaxStudents      int        `json:"maxStudents,omitempty"`
	StartsAt         *time.Time `json:"startsAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// StartHour returns the hour of day the item is scheduled to start.  The
// second result is false when the item has no schedule.
func (it Item) StartHour() (int, bool) {
	if it.StartsAt == nil {
		return 0, false
	}
	return it.StartsAt.Hour(), true
}

// IsFull reports whether a classroom has no seats left.
func (it Item) IsFull() bool {
	return it.MaxStudents > 0 && it.EnrolledStudents >= it.MaxStudents
}
