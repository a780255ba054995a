package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"servicenova/internal/applications"
	"servicenova/internal/roles"
	"servicenova/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

type cognitoAuthAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	ResendConfirmationCode(ctx context.Context, params *cognitoidentityprovider.ResendConfirmationCodeInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ResendConfirmationCodeOutput, error)
}

type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UpsertIdentity(ctx context.Context, userID, email, givenName, familyName string) error
}

type RoleResolver interface {
	Resolve(ctx context.Context, identity types.Identity) (roles.Resolution, error)
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	templates *template.Template

	cognitoClient cognitoAuthAPI
	cookie        *securecookie.SecureCookie
	verifier      TokenVerifier

	users        UserStore
	applications *applications.Service
	roles        RoleResolver

	metricsHandler http.Handler
	now            func() time.Time

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient cognitoAuthAPI,
	verifier TokenVerifier,
	users UserStore,
	applicationService *applications.Service,
	roleResolver RoleResolver,
	metricsHandler http.Handler,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:        logger,
		config:        config,
		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),
		verifier:      verifier,

		users:        users,
		applications: applicationService,
		roles:        roleResolver,

		metricsHandler: metricsHandler,
		now:            time.Now,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler, http.MethodGet)
	}

	r.Group(func(r *flow.Mux) {
		r.Use(s.OptionalAuth)

		r.HandleFunc("/", s.handleHome, http.MethodGet)

		r.HandleFunc("/register", s.handleGetRegister, http.MethodGet)
		r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
		r.HandleFunc("/register/confirm", s.handleGetRegisterConfirm, http.MethodGet)
		r.HandleFunc("/register/confirm", s.handlePostRegisterConfirm, http.MethodPost)
		r.HandleFunc("/register/confirm/resend", s.handlePostRegisterResend, http.MethodPost)
		r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
		r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
		r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/provider/application", s.handleGetApplicationForm, http.MethodGet)
		r.HandleFunc("/provider/application", s.handlePostApplicationForm, http.MethodPost)
		r.HandleFunc("/provider/application/success", s.handleGetApplicationSuccess, http.MethodGet)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleProvider))

			r.HandleFunc("/provider/dashboard", s.handleGetProviderDashboard, http.MethodGet)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleAdmin))

			r.HandleFunc("/admin/applications", s.handleGetAdminApplications, http.MethodGet)
			r.HandleFunc("/admin/applications/:id/interview", s.handlePostScheduleInterview, http.MethodPost)
			r.HandleFunc("/admin/applications/:id/status", s.handlePostApplicationStatus, http.MethodPost)
		})
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"derefOr": func(s *string, defaultVal string) string {
			if s == nil {
				return defaultVal
			}
			return *s
		},
		"date": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"join": strings.Join,
		"statusLabel": func(status types.ApplicationStatus) string {
			return strings.ReplaceAll(status.String(), "_", " ")
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
