package calendar

import "errors"

// Calendar errors
var (
	// ErrTitleRequired indicates meeting without title
	ErrTitleRequired = errors.New("meeting title is required")

	// ErrStartRequired indicates meeting without start time
	ErrStartRequired = errors.New("meeting start time is required")

	// ErrMeetingIDRequired indicates mutation without meeting id
	ErrMeetingIDRequired = errors.New("meeting id is required")

	// ErrActorRequired indicates response without responding user
	ErrActorRequired = errors.New("actor id is required")

	// ErrInvalidResponse indicates response status other than accepted/declined
	ErrInvalidResponse = errors.New("response must be accepted or declined")

	// ErrAllSourcesFailed indicates that no calendar source could be loaded
	ErrAllSourcesFailed = errors.New("all calendar sources failed")
)
