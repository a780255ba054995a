package types

import (
	"fmt"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending            ApplicationStatus = "pending"
	ApplicationStatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	ApplicationStatusApproved           ApplicationStatus = "approved"
	ApplicationStatusRejected           ApplicationStatus = "rejected"
)

var AllApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusInterviewScheduled,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// ParseApplicationStatus accepts only the four workflow values.
func ParseApplicationStatus(v string) (ApplicationStatus, error) {
	status := ApplicationStatus(strings.TrimSpace(strings.ToLower(v)))
	for _, s := range AllApplicationStatuses {
		if s == status {
			return s, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, v)
}

// IsTerminal reports whether no further transition is accepted from s.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// IsOpen reports whether the application is still under review.
func (s ApplicationStatus) IsOpen() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusInterviewScheduled
}

func (s ApplicationStatus) String() string {
	return string(s)
}

type ServiceType string

const (
	ServiceTypeBartender ServiceType = "bartender"
	ServiceTypeChef      ServiceType = "chef"
	ServiceTypeServer    ServiceType = "server"
)

var AllServiceTypes = []ServiceType{
	ServiceTypeBartender,
	ServiceTypeChef,
	ServiceTypeServer,
}

func ParseServiceType(v string) (ServiceType, error) {
	st := ServiceType(strings.TrimSpace(strings.ToLower(v)))
	for _, s := range AllServiceTypes {
		if s == st {
			return s, nil
		}
	}

	return "", fmt.Errorf("unknown service type %q", v)
}

// ProviderApplication is one person's bid to become a service provider.
// Document refs are keys into the document store, never file contents.
type ProviderApplication struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"userId"`

	FullName    string  `db:"full_name" json:"fullName"`
	Address     string  `db:"address" json:"address"`
	Age         int     `db:"age" json:"age"`
	PhoneNumber *string `db:"phone_number" json:"phoneNumber,omitempty"`
	Email       *string `db:"email" json:"email,omitempty"`

	ServiceType     ServiceType `db:"service_type" json:"serviceType"`
	YearsExperience int         `db:"years_experience" json:"yearsExperience"`
	Certifications  []string    `db:"certifications" json:"certifications"`

	IdentityProofRef   *string `db:"identity_proof_ref" json:"identityProofRef,omitempty"`
	ExperienceProofRef *string `db:"experience_proof_ref" json:"experienceProofRef,omitempty"`

	Status                 ApplicationStatus `db:"status" json:"status"`
	PreferredInterviewDate *time.Time        `db:"preferred_interview_date" json:"preferredInterviewDate,omitempty"`
	InterviewLink          *string           `db:"interview_link" json:"interviewLink,omitempty"`
	AdminNotes             *string           `db:"admin_notes" json:"adminNotes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ApplicationUpdate is the field-level patch applied by admin operations.
// Nil fields are left untouched.
type ApplicationUpdate struct {
	Status        *ApplicationStatus
	InterviewLink *string
	AdminNotes    *string
}
