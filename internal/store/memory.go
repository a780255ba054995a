package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"servicenova/internal/utils"
	"servicenova/pkg/types"
)

// MemoryApplicationRepository keeps applications in process memory. It backs
// `serve --memory` for local runs and the package tests of its consumers.
type MemoryApplicationRepository struct {
	mu           sync.Mutex
	applications map[string]*types.ProviderApplication
	now          func() time.Time
}

func NewMemoryApplicationRepository() *MemoryApplicationRepository {
	return &MemoryApplicationRepository{
		applications: make(map[string]*types.ProviderApplication),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source.
func (r *MemoryApplicationRepository) WithClock(now func() time.Time) *MemoryApplicationRepository {
	r.now = now
	return r
}

func (r *MemoryApplicationRepository) CreateApplication(_ context.Context, application *types.ProviderApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	application.ID = utils.NanoID()
	application.CreatedAt = now
	application.UpdatedAt = now
	if application.Certifications == nil {
		application.Certifications = []string{}
	}

	r.applications[application.ID] = copyApplication(application)
	return nil
}

func (r *MemoryApplicationRepository) Application(_ context.Context, applicationID string) (*types.ProviderApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	application, ok := r.applications[applicationID]
	if !ok {
		return nil, types.ErrApplicationNotFound
	}
	return copyApplication(application), nil
}

func (r *MemoryApplicationRepository) ApplicationsByUser(_ context.Context, userID string) ([]*types.ProviderApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*types.ProviderApplication, 0)
	for _, application := range r.applications {
		if application.UserID == userID {
			out = append(out, copyApplication(application))
		}
	}

	slices.SortFunc(out, func(a, b *types.ProviderApplication) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *MemoryApplicationRepository) Applications(_ context.Context) ([]*types.ProviderApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*types.ProviderApplication, 0, len(r.applications))
	for _, application := range r.applications {
		out = append(out, copyApplication(application))
	}

	slices.SortFunc(out, func(a, b *types.ProviderApplication) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *MemoryApplicationRepository) UpdateApplication(_ context.Context, applicationID string, expected types.ApplicationStatus, update types.ApplicationUpdate) (*types.ProviderApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	application, ok := r.applications[applicationID]
	if !ok {
		return nil, types.ErrApplicationNotFound
	}

	if expected != "" && application.Status != expected {
		to := application.Status
		if update.Status != nil {
			to = *update.Status
		}
		return nil, &types.TransitionError{ApplicationID: applicationID, From: application.Status, To: to}
	}

	if update.Status != nil {
		application.Status = *update.Status
	}
	if update.InterviewLink != nil {
		application.InterviewLink = utils.StringPtr(*update.InterviewLink)
	}
	if update.AdminNotes != nil {
		application.AdminNotes = utils.StringPtr(*update.AdminNotes)
	}
	application.UpdatedAt = r.now()

	return copyApplication(application), nil
}

// copyApplication deep copies so no caller shares memory with a stored record.
func copyApplication(in *types.ProviderApplication) *types.ProviderApplication {
	out := *in
	out.Certifications = slices.Clone(in.Certifications)
	out.PhoneNumber = cloneString(in.PhoneNumber)
	out.Email = cloneString(in.Email)
	out.IdentityProofRef = cloneString(in.IdentityProofRef)
	out.ExperienceProofRef = cloneString(in.ExperienceProofRef)
	out.InterviewLink = cloneString(in.InterviewLink)
	out.AdminNotes = cloneString(in.AdminNotes)
	if in.PreferredInterviewDate != nil {
		out.PreferredInterviewDate = utils.TimePtr(*in.PreferredInterviewDate)
	}
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.StringPtr(*s)
}

// MemoryUserRepository is the in-process counterpart of UserRepository.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*types.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*types.User)}
}

func (r *MemoryUserRepository) User(_ context.Context, userID string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *MemoryUserRepository) UpsertIdentity(_ context.Context, userID, email, givenName, familyName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	user, ok := r.users[userID]
	if !ok {
		user = &types.User{ID: userID, CreatedAt: now}
		r.users[userID] = user
	}

	if v := utils.TrimmedPtr(email); v != nil {
		user.Email = v
	}
	if v := utils.TrimmedPtr(givenName); v != nil {
		user.GivenName = v
	}
	if v := utils.TrimmedPtr(familyName); v != nil {
		user.FamilyName = v
	}
	user.UpdatedAt = now

	return nil
}
