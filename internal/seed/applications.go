package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"servicenova/internal/applications"
	"servicenova/internal/utils"
	"servicenova/pkg/types"

	"github.com/sirupsen/logrus"
)

// placeholderProof stands in for a scanned document in development data.
const placeholderProof = "%PDF-1.4\n% servicenova seed document\n"

// SeedApplications gives every fake user with a target status one
// application, walking it through the real workflow so the stored records
// look exactly like ones produced by admins. Users who already have an
// application are left alone, which keeps the seed repeatable.
func SeedApplications(ctx context.Context, logger *logrus.Logger, svc *applications.Service) error {
	created := 0

	for i, fakeUser := range fakeUsers {
		if fakeUser.Status == "" {
			continue
		}

		existing, err := svc.ApplicationsByUser(ctx, fakeUser.ID)
		if err != nil {
			return fmt.Errorf("failed to check applications for %s: %w", fakeUser.ID, err)
		}
		if len(existing) > 0 {
			continue
		}

		interview := time.Now().UTC().Truncate(time.Hour).Add(time.Duration(24*(i+1)) * time.Hour)

		application, err := svc.Submit(ctx, &applications.Submission{
			Identity:               types.Identity{UserID: fakeUser.ID, Email: fakeUser.Email},
			FullName:               fakeUser.GivenName + " " + fakeUser.FamilyName,
			Address:                fmt.Sprintf("%d Residency Road, Bengaluru", 10+i),
			Age:                    24 + i*3,
			PhoneNumber:            fmt.Sprintf("+91 98450 0000%d", i),
			ServiceType:            string(fakeUser.Service),
			YearsExperience:        2 + i,
			Certifications:         []string{"Food Safety Level 2"},
			PreferredInterviewDate: utils.TimePtr(interview),
			IdentityProof: &applications.Document{
				FileName:    "identity.pdf",
				ContentType: "application/pdf",
				Size:        int64(len(placeholderProof)),
				Body:        strings.NewReader(placeholderProof),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to submit seed application for %s: %w", fakeUser.ID, err)
		}

		if err := advance(ctx, svc, application, fakeUser.Status); err != nil {
			return fmt.Errorf("failed to advance seed application %s: %w", application.ID, err)
		}
		created++
	}

	logger.WithField("count", created).Info("seed applications created")
	return nil
}

func advance(ctx context.Context, svc *applications.Service, application *types.ProviderApplication, target types.ApplicationStatus) error {
	switch target {
	case types.ApplicationStatusPending:
		return nil
	case types.ApplicationStatusRejected:
		notes := "Seed data: rejected without interview"
		_, err := svc.SetStatus(ctx, application.ID, target, &notes)
		return err
	}

	if _, err := svc.ScheduleInterview(ctx, application.ID); err != nil {
		return err
	}
	if target == types.ApplicationStatusInterviewScheduled {
		return nil
	}

	notes := "Seed data: approved after interview"
	_, err := svc.SetStatus(ctx, application.ID, target, &notes)
	return err
}
