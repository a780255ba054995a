package applications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"servicenova/internal/storage"
	"servicenova/internal/utils"
	"servicenova/pkg/types"

	"github.com/sirupsen/logrus"
)

// Document is an uploaded file on its way to the document store.
type Document struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Submission is the applicant's request to become a provider.
type Submission struct {
	Identity types.Identity `form:"-" validate:"-"`

	UserID                 string     `form:"user_id" validate:"required"`
	FullName               string     `form:"full_name" validate:"required,max=200"`
	Address                string     `form:"address" validate:"required,max=500"`
	Age                    int        `form:"age" validate:"gte=18,lte=120"`
	PhoneNumber            string     `form:"phone_number" validate:"omitempty,max=32"`
	Email                  string     `form:"email" validate:"omitempty,email"`
	ServiceType            string     `form:"service_type" validate:"required,oneof=bartender chef server"`
	YearsExperience        int        `form:"years_experience" validate:"gte=0,lte=80"`
	Certifications         []string   `form:"certifications" validate:"dive,max=120"`
	PreferredInterviewDate *time.Time `form:"preferred_interview_date"`

	IdentityProof   *Document `form:"identity_proof" validate:"required"`
	ExperienceProof *Document `form:"experience_proof" validate:"omitempty"`
}

// Submit validates the submission, stores the supplied documents and creates
// one pending application. Nothing is uploaded or written when validation
// fails, and no record is created without its identity proof.
func (s *Service) Submit(ctx context.Context, sub *Submission) (*types.ProviderApplication, error) {
	if sub.UserID == "" {
		sub.UserID = sub.Identity.UserID
	}
	if sub.Email == "" {
		sub.Email = sub.Identity.Email
	}

	if err := sub.Validate(); err != nil {
		s.metrics.Submission("invalid")
		return nil, err
	}

	serviceType, err := types.ParseServiceType(sub.ServiceType)
	if err != nil {
		verr := types.NewValidationError()
		verr.Add("service_type", "must be one of: bartender, chef, server")
		s.metrics.Submission("invalid")
		return nil, verr
	}

	existing, err := s.repo.ApplicationsByUser(ctx, sub.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing applications: %w", err)
	}
	for _, application := range existing {
		if application.Status.IsOpen() || application.Status == types.ApplicationStatusApproved {
			s.metrics.Submission("duplicate")
			return nil, types.ErrApplicationOpen
		}
	}

	uploaded := make([]string, 0, 2)

	identityRef, err := s.upload(ctx, sub.UserID, types.DocumentTypeIdentity, sub.IdentityProof)
	if err != nil {
		s.metrics.Submission("upload_failed")
		return nil, err
	}
	uploaded = append(uploaded, identityRef)

	var experienceRef *string
	if sub.ExperienceProof != nil {
		ref, err := s.upload(ctx, sub.UserID, types.DocumentTypeExperience, sub.ExperienceProof)
		if err != nil {
			s.discardUploads(ctx, uploaded)
			s.metrics.Submission("upload_failed")
			return nil, err
		}
		uploaded = append(uploaded, ref)
		experienceRef = &ref
	}

	application := &types.ProviderApplication{
		UserID:                 sub.UserID,
		FullName:               sub.FullName,
		Address:                sub.Address,
		Age:                    sub.Age,
		PhoneNumber:            utils.TrimmedPtr(sub.PhoneNumber),
		Email:                  utils.TrimmedPtr(sub.Email),
		ServiceType:            serviceType,
		YearsExperience:        sub.YearsExperience,
		Certifications:         sub.Certifications,
		IdentityProofRef:       &identityRef,
		ExperienceProofRef:     experienceRef,
		Status:                 types.ApplicationStatusPending,
		PreferredInterviewDate: sub.PreferredInterviewDate,
	}

	err = s.repo.CreateApplication(ctx, application)
	if err != nil {
		s.discardUploads(ctx, uploaded)
		s.metrics.Submission("failed")
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.metrics.Submission("created")
	s.logger.WithFields(logrus.Fields{
		"application_id": application.ID,
		"user_id":        application.UserID,
		"service_type":   application.ServiceType,
	}).Info("provider application submitted")

	return application, nil
}

func (s *Service) upload(ctx context.Context, userID string, documentType types.DocumentType, doc *Document) (string, error) {
	if doc == nil || doc.Body == nil {
		return "", &types.UploadError{DocumentType: documentType, Err: errors.New("no file supplied")}
	}

	key := storage.DocumentKey(userID, documentType, s.now(), doc.FileName)

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ref, err := s.documents.Put(ctx, key, doc.Body, doc.Size, contentType)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":     userID,
			"storage_key": key,
		}).Error("failed to upload application document")
		return "", &types.UploadError{DocumentType: documentType, Err: err}
	}

	return ref, nil
}

// discardUploads removes documents from an aborted submission. Failures are
// only logged; the submission error is what the caller sees.
func (s *Service) discardUploads(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.documents.Delete(ctx, key); err != nil {
			s.logger.WithError(err).WithField("storage_key", key).Warn("failed to remove document from aborted submission")
		}
	}
}
