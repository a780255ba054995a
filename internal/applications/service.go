package applications

import (
	"context"
	"io"
	"time"

	"servicenova/internal/metrics"
	"servicenova/internal/notify"
	"servicenova/internal/utils"
	"servicenova/pkg/types"

	"github.com/sirupsen/logrus"
)

type Repository interface {
	CreateApplication(ctx context.Context, application *types.ProviderApplication) error
	Application(ctx context.Context, applicationID string) (*types.ProviderApplication, error)
	ApplicationsByUser(ctx context.Context, userID string) ([]*types.ProviderApplication, error)
	Applications(ctx context.Context) ([]*types.ProviderApplication, error)
	UpdateApplication(ctx context.Context, applicationID string, expected types.ApplicationStatus, update types.ApplicationUpdate) (*types.ProviderApplication, error)
}

type DocumentStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type Dispatcher interface {
	Send(ctx context.Context, n notify.InterviewNotification) error
}

// Service owns the provider application lifecycle: submission, admin status
// changes and interview scheduling.
type Service struct {
	logger     *logrus.Logger
	repo       Repository
	documents  DocumentStore
	dispatcher Dispatcher
	metrics    *metrics.Workflow

	meetingBaseURL string
	now            func() time.Time
	meetingCode    func() string
}

func New(
	logger *logrus.Logger,
	repo Repository,
	documents DocumentStore,
	dispatcher Dispatcher,
	workflowMetrics *metrics.Workflow,
	meetingBaseURL string,
) *Service {
	return &Service{
		logger:         logger,
		repo:           repo,
		documents:      documents,
		dispatcher:     dispatcher,
		metrics:        workflowMetrics,
		meetingBaseURL: meetingBaseURL,
		now:            time.Now,
		meetingCode:    utils.MeetingCode,
	}
}

func (s *Service) Application(ctx context.Context, applicationID string) (*types.ProviderApplication, error) {
	return s.repo.Application(ctx, applicationID)
}

func (s *Service) ApplicationsByUser(ctx context.Context, userID string) ([]*types.ProviderApplication, error) {
	return s.repo.ApplicationsByUser(ctx, userID)
}

// Applications lists every application, newest submission first.
func (s *Service) Applications(ctx context.Context) ([]*types.ProviderApplication, error) {
	return s.repo.Applications(ctx)
}

// DocumentURL resolves a stored document reference, or "" when absent.
func (s *Service) DocumentURL(ref *string) string {
	key := utils.PtrString(ref)
	if key == "" {
		return ""
	}
	return s.documents.PublicURL(key)
}
