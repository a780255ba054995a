package types

type NavbarData struct {
	IsAuthenticated bool
	UserID          string
	UserEmail       string
	Role            Role
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type BasePageData struct {
	Title  string
	Navbar NavbarData
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

type HomePageData struct {
	BasePageData
	Notice            string
	Error             string
	LatestApplication *ProviderApplication
}

type LoginPageData struct {
	BasePageData
	Message string
	Error   string
	Email   string
	Next    string
}

type RegisterPageData struct {
	BasePageData
	Form        RegisterForm
	Error       string
	FieldErrors map[string]string
}

type RegisterForm struct {
	GivenName       string `form:"given_name" validate:"required,max=100"`
	FamilyName      string `form:"family_name" validate:"required,max=100"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=12,password"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password"`
}

type ConfirmRegisterPageData struct {
	BasePageData
	Email   string
	Error   string
	Message string
}

type ConfirmRegisterForm struct {
	Email string `form:"email" validate:"required,email"`
	Code  string `form:"code" validate:"required,numeric,len=6"`
}

type ApplicationFormPageData struct {
	BasePageData
	Form         ApplicationForm
	ServiceTypes []ServiceType
	Error        string
	FieldErrors  map[string]string
}

// ApplicationForm mirrors the submission form fields as typed by the
// applicant so the page can be re-rendered after validation errors.
type ApplicationForm struct {
	FullName               string `form:"full_name"`
	Address                string `form:"address"`
	Age                    string `form:"age"`
	PhoneNumber            string `form:"phone_number"`
	Email                  string `form:"email"`
	ServiceType            string `form:"service_type"`
	YearsExperience        string `form:"years_experience"`
	Certifications         string `form:"certifications"`
	PreferredInterviewDate string `form:"preferred_interview_date"`
}

type ApplicationSuccessPageData struct {
	BasePageData
	Application *ProviderApplication
}

type ProviderDashboardPageData struct {
	BasePageData
	Application        *ProviderApplication
	IdentityProofURL   string
	ExperienceProofURL string
}

type AdminApplicationRow struct {
	Application        *ProviderApplication
	IdentityProofURL   string
	ExperienceProofURL string
	CanSchedule        bool
	CanApprove         bool
	CanReject          bool
}

type AdminApplicationsPageData struct {
	BasePageData
	Notice   string
	Error    string
	Pending  []AdminApplicationRow
	Reviewed []AdminApplicationRow
}

// AdminStatusForm is posted by the approve and reject buttons.
type AdminStatusForm struct {
	Status     string `form:"status"`
	AdminNotes string `form:"admin_notes"`
}
