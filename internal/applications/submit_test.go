package applications

import (
	"context"
	"errors"
	"testing"

	"servicenova/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCreatesPendingApplication(t *testing.T) {
	h := newHarness(t)

	application, err := h.svc.Submit(context.Background(), ashaSubmission())
	require.NoError(t, err)

	assert.NotEmpty(t, application.ID)
	assert.Equal(t, "user-asha", application.UserID)
	assert.Equal(t, types.ApplicationStatusPending, application.Status)
	assert.Equal(t, types.ServiceTypeChef, application.ServiceType)
	assert.Equal(t, 5, application.YearsExperience)
	assert.Equal(t, "asha@example.com", *application.Email, "email defaults to the authenticated identity")
	require.NotNil(t, application.IdentityProofRef)
	assert.Equal(t, "user-asha/identity_1772355600000.pdf", *application.IdentityProofRef)
	assert.Nil(t, application.ExperienceProofRef)
	assert.Nil(t, application.InterviewLink)
	assert.Equal(t, 1, h.documents.count())

	stored, err := h.repo.Application(context.Background(), application.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusPending, stored.Status)
}

func TestSubmitStoresExperienceProof(t *testing.T) {
	h := newHarness(t)

	sub := ashaSubmission()
	sub.ExperienceProof = document("certificate.png")

	application, err := h.svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	require.NotNil(t, application.ExperienceProofRef)
	assert.Equal(t, "user-asha/experience_1772355600000.png", *application.ExperienceProofRef)
	assert.Equal(t, 2, h.documents.count())
}

func TestSubmitValidationUploadsNothing(t *testing.T) {
	h := newHarness(t)

	sub := ashaSubmission()
	sub.FullName = ""
	sub.Age = 16
	sub.ServiceType = "plumber"
	sub.IdentityProof = nil

	_, err := h.svc.Submit(context.Background(), sub)

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["full_name"])
	assert.Equal(t, "must be at least 18", verr.Fields["age"])
	assert.Equal(t, "must be one of: bartender, chef, server", verr.Fields["service_type"])
	assert.Equal(t, "is required", verr.Fields["identity_proof"])

	assert.Zero(t, h.documents.count())
	all, err := h.repo.Applications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitIdentityUploadFailureCreatesNothing(t *testing.T) {
	h := newHarness(t)
	h.documents.failOn = types.DocumentTypeIdentity

	_, err := h.svc.Submit(context.Background(), ashaSubmission())

	var uerr *types.UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, types.DocumentTypeIdentity, uerr.DocumentType)

	all, err := h.repo.Applications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitExperienceUploadFailureDiscardsIdentity(t *testing.T) {
	h := newHarness(t)
	h.documents.failOn = types.DocumentTypeExperience

	sub := ashaSubmission()
	sub.ExperienceProof = document("certificate.pdf")

	_, err := h.svc.Submit(context.Background(), sub)

	var uerr *types.UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, types.DocumentTypeExperience, uerr.DocumentType)
	assert.Zero(t, h.documents.count())
	assert.Equal(t, []string{"user-asha/identity_1772355600000.pdf"}, h.documents.deleted)

	all, err := h.repo.Applications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitResubmissionPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("open application blocks", func(t *testing.T) {
		h := newHarness(t)
		h.submit(t)

		_, err := h.svc.Submit(ctx, ashaSubmission())
		assert.True(t, errors.Is(err, types.ErrApplicationOpen))
	})

	t.Run("approved application blocks", func(t *testing.T) {
		h := newHarness(t)
		application := h.submit(t)
		_, err := h.svc.ScheduleInterview(ctx, application.ID)
		require.NoError(t, err)
		_, err = h.svc.SetStatus(ctx, application.ID, types.ApplicationStatusApproved, nil)
		require.NoError(t, err)

		_, err = h.svc.Submit(ctx, ashaSubmission())
		assert.ErrorIs(t, err, types.ErrApplicationOpen)
	})

	t.Run("rejected applicant may apply again", func(t *testing.T) {
		h := newHarness(t)
		application := h.submit(t)
		_, err := h.svc.SetStatus(ctx, application.ID, types.ApplicationStatusRejected, nil)
		require.NoError(t, err)

		again, err := h.svc.Submit(ctx, ashaSubmission())
		require.NoError(t, err)
		assert.NotEqual(t, application.ID, again.ID)
		assert.Equal(t, types.ApplicationStatusPending, again.Status)
	})
}

func TestParseFormCollectsEveryFieldError(t *testing.T) {
	form := types.ApplicationForm{
		FullName:               "  Ravi ",
		Address:                "4 Park Street",
		Age:                    "abc",
		ServiceType:            "Bartender",
		YearsExperience:        "",
		Certifications:         "Mixology, , Wine Basics",
		PreferredInterviewDate: "tomorrow",
	}

	sub, verr := ParseForm(types.Identity{UserID: "user-ravi"}, form, nil, nil)
	require.NotNil(t, verr)

	assert.Equal(t, "must be a whole number", verr.Fields["age"])
	assert.Equal(t, "is required", verr.Fields["years_experience"])
	assert.Equal(t, "must be a valid date and time", verr.Fields["preferred_interview_date"])
	assert.Equal(t, "is required", verr.Fields["identity_proof"])
	assert.NotContains(t, verr.Fields, "service_type")

	assert.Equal(t, "Ravi", sub.FullName)
	assert.Equal(t, "bartender", sub.ServiceType)
	assert.Equal(t, []string{"Mixology", "Wine Basics"}, sub.Certifications)
}

func TestParseFormAcceptsValidInput(t *testing.T) {
	form := types.ApplicationForm{
		FullName:               "Asha",
		Address:                "12 MG Road",
		Age:                    "29",
		ServiceType:            "chef",
		YearsExperience:        "5",
		PreferredInterviewDate: "2026-03-02T15:30",
	}

	sub, verr := ParseForm(types.Identity{UserID: "user-asha", Email: "asha@example.com"}, form, document("id.pdf"), nil)
	require.Nil(t, verr)

	assert.Equal(t, "user-asha", sub.UserID)
	assert.Equal(t, 29, sub.Age)
	assert.Equal(t, 5, sub.YearsExperience)
	require.NotNil(t, sub.PreferredInterviewDate)
	assert.Equal(t, 15, sub.PreferredInterviewDate.Hour())
	assert.Empty(t, sub.Certifications)
}
