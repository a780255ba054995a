package seed

import (
	"context"
	"fmt"

	"servicenova/pkg/types"

	"github.com/sirupsen/logrus"
)

type UserStore interface {
	UpsertIdentity(ctx context.Context, userID, email, givenName, familyName string) error
}

type fakeUserSeed struct {
	ID         string
	Email      string
	GivenName  string
	FamilyName string
	Service    types.ServiceType
	// Status is where the seeded application is driven to. Empty seeds the
	// user without an application.
	Status types.ApplicationStatus
}

var fakeUsers = []fakeUserSeed{
	{ID: "11111111-1111-1111-1111-111111111111", Email: "asha.rao+seed1@example.com", GivenName: "Asha", FamilyName: "Rao", Service: types.ServiceTypeChef, Status: types.ApplicationStatusPending},
	{ID: "22222222-2222-2222-2222-222222222222", Email: "ravi.kumar+seed2@example.com", GivenName: "Ravi", FamilyName: "Kumar", Service: types.ServiceTypeBartender, Status: types.ApplicationStatusInterviewScheduled},
	{ID: "33333333-3333-3333-3333-333333333333", Email: "meera.nair+seed3@example.com", GivenName: "Meera", FamilyName: "Nair", Service: types.ServiceTypeServer, Status: types.ApplicationStatusApproved},
	{ID: "44444444-4444-4444-4444-444444444444", Email: "arjun.singh+seed4@example.com", GivenName: "Arjun", FamilyName: "Singh", Service: types.ServiceTypeChef, Status: types.ApplicationStatusRejected},
	{ID: "55555555-5555-5555-5555-555555555555", Email: "kavya.iyer+seed5@example.com", GivenName: "Kavya", FamilyName: "Iyer"},
}

func SeedFakeUsers(ctx context.Context, logger *logrus.Logger, users UserStore) error {
	for _, fakeUser := range fakeUsers {
		err := users.UpsertIdentity(ctx, fakeUser.ID, fakeUser.Email, fakeUser.GivenName, fakeUser.FamilyName)
		if err != nil {
			return fmt.Errorf("failed to upsert fake user %s: %w", fakeUser.ID, err)
		}
	}

	logger.WithField("count", len(fakeUsers)).Info("fake users seeded")
	return nil
}
