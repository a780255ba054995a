package server

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"unicode"

	"servicenova/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/go-playground/validator/v10"
)

const (
	registerTemplate        = "page.register"
	registerConfirmTemplate = "page.register.confirm"
)

var accountValidator = newAccountValidator()

func newAccountValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return v
}

// strongPassword mirrors the user pool policy so most rejections happen
// before the Cognito round trip.
func strongPassword(password string) bool {
	var upper, lower, digit, symbol bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

var accountFieldMessages = map[string]string{
	"given_name":       "First name is required.",
	"family_name":      "Last name is required.",
	"email":            "Enter a valid email address.",
	"password":         "Password must be at least 12 characters and include uppercase, lowercase, number, and symbol.",
	"confirm_password": "Passwords do not match.",
	"code":             "Enter the 6 digit code from your email.",
}

func accountFieldErrors(err error) map[string]string {
	fieldErrs := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fieldErrs
	}

	for _, fe := range verrs {
		msg, ok := accountFieldMessages[fe.Field()]
		if !ok {
			msg = "This field is invalid."
		}
		fieldErrs[fe.Field()] = msg
	}
	return fieldErrs
}

func (s *Service) handleGetRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromContext(r.Context()); ok {
		s.logger.Debug("user is already logged in, redirecting to home")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := &types.RegisterPageData{
		BasePageData: types.BasePageData{Title: "Create Account"},
	}

	err := s.renderTemplate(w, r, registerTemplate, data)
	if err != nil {
		s.logger.WithError(err).Error("failed to render register page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := &types.RegisterPageData{
		BasePageData: types.BasePageData{Title: "Create Account"},
	}

	if err := r.ParseForm(); err != nil {
		data.Error = "We could not read your details. Please try again."
		s.renderAccountPage(w, r, http.StatusBadRequest, registerTemplate, data)
		return
	}

	if err := decoder.Decode(&data.Form, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode register form")
		data.Error = "We could not read your details. Please try again."
		s.renderAccountPage(w, r, http.StatusBadRequest, registerTemplate, data)
		return
	}

	form := &data.Form
	form.GivenName = strings.TrimSpace(form.GivenName)
	form.FamilyName = strings.TrimSpace(form.FamilyName)
	form.Email = strings.TrimSpace(form.Email)

	if err := accountValidator.Struct(form); err != nil {
		data.FieldErrors = accountFieldErrors(err)
		s.logger.WithField("field_errors", data.FieldErrors).Info("validation errors during registration")

		data.Error = "Please fix the highlighted fields."
		s.renderAccountPage(w, r, http.StatusUnprocessableEntity, registerTemplate, data)
		return
	}

	input := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(s.config.CognitoClientID),
		Username: aws.String(form.Email),
		Password: aws.String(form.Password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(form.Email)},
			{Name: aws.String("given_name"), Value: aws.String(form.GivenName)},
			{Name: aws.String("family_name"), Value: aws.String(form.FamilyName)},
		},
	}

	out, err := s.cognitoClient.SignUp(ctx, input)
	if err != nil {
		data.Error, data.FieldErrors = s.signUpErrorMessage(err)
		s.renderAccountPage(w, r, http.StatusUnprocessableEntity, registerTemplate, data)
		return
	}

	// The sub is the user id every token carries from now on.
	if userSub := aws.ToString(out.UserSub); userSub != "" {
		err = s.users.UpsertIdentity(ctx, userSub, form.Email, form.GivenName, form.FamilyName)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", userSub).Warn("failed to record registered user")
		}
	}

	http.Redirect(w, r, confirmPath(form.Email, ""), http.StatusSeeOther)
}

func confirmPath(email, message string) string {
	v := url.Values{}
	v.Set("email", email)
	if message != "" {
		v.Set("message", message)
	}
	return "/register/confirm?" + v.Encode()
}

func (s *Service) handleGetRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	data := &types.ConfirmRegisterPageData{
		BasePageData: types.BasePageData{Title: "Confirm Your Account"},
		Email:        strings.TrimSpace(r.URL.Query().Get("email")),
		Message:      strings.TrimSpace(r.URL.Query().Get("message")),
	}

	err := s.renderTemplate(w, r, registerConfirmTemplate, data)
	if err != nil {
		s.logger.WithError(err).Error("failed to render register confirm page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	var form types.ConfirmRegisterForm
	if err := r.ParseForm(); err == nil {
		_ = decoder.Decode(&form, r.PostForm)
	}
	form.Email = strings.TrimSpace(form.Email)
	form.Code = strings.TrimSpace(form.Code)

	data := &types.ConfirmRegisterPageData{
		BasePageData: types.BasePageData{Title: "Confirm Your Account"},
		Email:        form.Email,
	}

	if err := accountValidator.Struct(&form); err != nil {
		fieldErrs := accountFieldErrors(err)
		data.Error = fieldErrs["code"]
		if data.Error == "" {
			data.Error = "Your confirmation link is incomplete. Please register again."
		}
		s.renderAccountPage(w, r, http.StatusUnprocessableEntity, registerConfirmTemplate, data)
		return
	}

	input := &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(s.config.CognitoClientID),
		Username:         aws.String(form.Email),
		ConfirmationCode: aws.String(form.Code),
	}

	_, err := s.cognitoClient.ConfirmSignUp(r.Context(), input)
	if err != nil {
		s.logger.WithError(err).Info("failed to confirm user signup")

		var codeMismatch *ctypes.CodeMismatchException
		var expired *ctypes.ExpiredCodeException
		switch {
		case errors.As(err, &codeMismatch):
			data.Error = "Invalid confirmation code. Please check the code and try again."
		case errors.As(err, &expired):
			data.Error = "That code has expired. Send yourself a new one below."
		default:
			data.Error = "Unable to confirm account. Please try again."
		}

		s.renderAccountPage(w, r, http.StatusUnprocessableEntity, registerConfirmTemplate, data)
		return
	}

	http.Redirect(w, r, "/login?confirmed=true", http.StatusSeeOther)
}

func (s *Service) handlePostRegisterResend(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	_, err := s.cognitoClient.ResendConfirmationCode(r.Context(), &cognitoidentityprovider.ResendConfirmationCodeInput{
		ClientId: aws.String(s.config.CognitoClientID),
		Username: aws.String(email),
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to resend confirmation code")
		data := &types.ConfirmRegisterPageData{
			BasePageData: types.BasePageData{Title: "Confirm Your Account"},
			Email:        email,
			Error:        "We could not send a new code right now. Please try again shortly.",
		}
		s.renderAccountPage(w, r, http.StatusBadGateway, registerConfirmTemplate, data)
		return
	}

	http.Redirect(w, r, confirmPath(email, "A new code is on its way."), http.StatusSeeOther)
}

func (s *Service) renderAccountPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderTemplate(w, r, name, data); err != nil {
		s.logger.WithError(err).WithField("template", name).Error("failed to render account page")
	}
}

func (s *Service) signUpErrorMessage(err error) (string, map[string]string) {
	fieldErrs := map[string]string{}

	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		fieldErrs["password"] = accountFieldMessages["password"]
		return "Please fix the highlighted fields.", fieldErrs
	}

	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		fieldErrs["email"] = "An account with this email already exists."
		return "Try logging in instead.", fieldErrs
	}

	var invalidParam *ctypes.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return "Some details are invalid. Please review and try again.", fieldErrs
	}

	s.logger.WithError(err).Error("unhandled cognito signup error")

	return "Unable to create account right now. Please try again.", fieldErrs
}
