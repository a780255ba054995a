package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"servicenova/internal"
	"servicenova/internal/gate"
	"servicenova/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromContext(r.Context()); ok {
		s.logger.Debug("user is already logged in, redirecting home")
		http.Redirect(w, r, gate.HomePath, http.StatusSeeOther)
		return
	}

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Log In"},
		Error:        strings.TrimSpace(r.URL.Query().Get("error")),
		Next:         gate.SafeNext(r.URL.Query().Get("next")),
	}
	if r.URL.Query().Get("confirmed") == "true" {
		data.Message = "Your account is confirmed. Log in to continue."
	}

	err := s.renderTemplate(w, r, "page.login", data)
	if err != nil {
		s.logger.WithError(err).Error("failed to render login page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := gate.SafeNext(r.FormValue("next"))

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Log In"},
		Email:        email,
		Next:         next,
	}

	if email == "" || password == "" {
		data.Error = "Email and password are required."
		s.renderLoginError(w, r, data)
		return
	}

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	}

	resp, err := s.cognitoClient.InitiateAuth(ctx, input)
	if err != nil {
		s.logger.WithError(err).Info("login rejected by cognito")
		data.Error = loginErrorMessage(err)
		s.renderLoginError(w, r, data)
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		data.Error = "Login failed. Please try again."
		s.renderLoginError(w, r, data)
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	identity, err := s.verifier.Verify(ctx, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to verify freshly issued access token")
		data.Error = "Login failed. Please try again."
		s.renderLoginError(w, r, data)
		return
	}

	if err := s.users.UpsertIdentity(ctx, identity.UserID, email, "", ""); err != nil {
		s.logger.WithError(err).WithField("user_id", identity.UserID).Warn("failed to record user identity at login")
	}

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.internalServerError(w)
		return
	}

	// Set httpOnly, secure cookie with access token
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})

	// A new sign-in never inherits a role resolved for an earlier one.
	s.clearRoleSession(w)

	s.logger.WithField("user_id", identity.UserID).Info("user logged in")

	if next != gate.HomePath {
		s.clearRedirectCookie(w)
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	// Check to see if this login attempt was the result of an unauthed redirect
	redirectCookie, err := r.Cookie(internal.COOKIE_REDIRECT_NAME)
	if err == nil {
		s.clearRedirectCookie(w)
		http.Redirect(w, r, gate.SafeNext(redirectCookie.Value), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, gate.HomePath, http.StatusSeeOther)
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Path:     "/",
	})
	s.clearRoleSession(w)
	s.clearRedirectCookie(w)

	if identity, ok := identityFromContext(r.Context()); ok {
		s.logger.WithField("user_id", identity.UserID).Info("user logged out")
	}

	http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
}

func (s *Service) renderLoginError(w http.ResponseWriter, r *http.Request, data *types.LoginPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	if err := s.renderTemplate(w, r, "page.login", data); err != nil {
		s.logger.WithError(err).Error("failed to render login page with error")
	}
}

func loginErrorMessage(err error) string {
	var notConfirmed *ctypes.UserNotConfirmedException
	if errors.As(err, &notConfirmed) {
		return "Please confirm your account before logging in."
	}

	var notAuthorized *ctypes.NotAuthorizedException
	if errors.As(err, &notAuthorized) {
		return "Invalid email or password."
	}

	return "Login failed. Please try again."
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    path,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(age.Seconds()),
	})
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
