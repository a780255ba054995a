package notify

import (
	"errors"
	"fmt"
	"time"
)

// InterviewNotification is everything the applicant needs to join the
// interview.
type InterviewNotification struct {
	To            string
	ApplicantName string
	InterviewDate time.Time
	MeetingLink   string
}

var ErrMissingField = errors.New("missing required notification field")

func (n InterviewNotification) Validate() error {
	switch {
	case n.To == "":
		return fmt.Errorf("%w: to", ErrMissingField)
	case n.ApplicantName == "":
		return fmt.Errorf("%w: applicant name", ErrMissingField)
	case n.InterviewDate.IsZero():
		return fmt.Errorf("%w: interview date", ErrMissingField)
	case n.MeetingLink == "":
		return fmt.Errorf("%w: meeting link", ErrMissingField)
	}
	return nil
}

// FormattedDate renders the interview date the way it appears in the email,
// e.g. "Monday, March 2, 2026 at 03:30 PM UTC".
func (n InterviewNotification) FormattedDate() string {
	return n.InterviewDate.Format("Monday, January 2, 2006 at 03:04 PM MST")
}
