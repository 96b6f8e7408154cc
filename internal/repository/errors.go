// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors.  For example, ErrClassroomFull signals that
// an enrollment cannot proceed because every seat is taken, while
// ErrAlreadyEnrolled reports a duplicate enrollment of the same user.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrItemNotFound is returned when a catalog item of the requested kind
// does not exist.  Handlers should translate this into an HTTP 404.
var ErrItemNotFound = errors.New("catalog item not found")

// ErrRoomNotFound is returned when no video room has the given id.
var ErrRoomNotFound = errors.New("video room not found")

// ErrUserNotFound is returned when no user has the given id.
var ErrUserNotFound = errors.New("user not found")

// ErrClassroomFull is returned by Enroll when the classroom has reached
// its capacity.  Handlers should translate this into an HTTP 409.
var ErrClassroomFull = errors.New("classroom is full")

// ErrAlreadyEnrolled is returned by Enroll when the user already holds a
// seat in the classroom.  Handlers should translate this into an HTTP 409.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ErrConflict is returned when an insert collides with an existing row
// (duplicate room name and the like).
var ErrConflict = errors.New("conflict")

// isDuplicate reports a MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
