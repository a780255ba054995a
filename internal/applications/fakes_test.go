package applications

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"servicenova/internal/notify"
	"servicenova/internal/store"
	"servicenova/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type memoryDocuments struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  types.DocumentType
	deleted []string
}

func newMemoryDocuments() *memoryDocuments {
	return &memoryDocuments{objects: map[string][]byte{}}
}

func (d *memoryDocuments) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if d.failOn != "" && strings.Contains(key, "/"+string(d.failOn)+"_") {
		return "", errors.New("bucket unavailable")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.objects[key] = data
	return key, nil
}

func (d *memoryDocuments) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.objects, key)
	d.deleted = append(d.deleted, key)
	return nil
}

func (d *memoryDocuments) PublicURL(key string) string {
	return "https://docs.example.test/" + key
}

func (d *memoryDocuments) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.objects)
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notify.InterviewNotification
	err  error
}

func (d *recordingDispatcher) Send(_ context.Context, n notify.InterviewNotification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return d.err
}

type harness struct {
	svc        *Service
	repo       *store.MemoryApplicationRepository
	documents  *memoryDocuments
	dispatcher *recordingDispatcher
	logs       *test.Hook
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	h := &harness{
		repo:       store.NewMemoryApplicationRepository(),
		documents:  newMemoryDocuments(),
		dispatcher: &recordingDispatcher{},
		logs:       hook,
	}
	h.svc = New(logger, h.repo, h.documents, h.dispatcher, nil, "https://meet.google.com")
	h.svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	return h
}

func document(name string) *Document {
	body := []byte("%PDF-1.4 test")
	return &Document{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	}
}

func ashaSubmission() *Submission {
	interview := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)
	return &Submission{
		Identity:               types.Identity{UserID: "user-asha", Email: "asha@example.com"},
		FullName:               "Asha",
		Address:                "12 MG Road, Bengaluru",
		Age:                    29,
		ServiceType:            "chef",
		YearsExperience:        5,
		Certifications:         []string{"Food Safety"},
		PreferredInterviewDate: &interview,
		IdentityProof:          document("passport.PDF"),
	}
}

func (h *harness) submit(t *testing.T) *types.ProviderApplication {
	t.Helper()
	application, err := h.svc.Submit(context.Background(), ashaSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return application
}
