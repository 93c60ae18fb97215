package types

import "io"

// StatusDocumentsRequested is the status title under which staff expect a
// follow-up document from the applicant.
const StatusDocumentsRequested = "Documents Requested"

type ApplicationStatus struct {
	Title       string `json:"title"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type ApplicationDetails struct {
	CategoryName           string `json:"category_name"`
	EmploymentStatus       string `json:"employment_status"`
	EmployerName           string `json:"employer_name"`
	EmployerAddress        string `json:"employer_address"`
	InstituteName          string `json:"institute_name"`
	MonthlyIncome          Amount `json:"monthly_income"`
	OtherIncomeSources     string `json:"other_income_sources"`
	TotalHouseholdIncome   Amount `json:"total_household_income"`
	MonthlyExpenses        Amount `json:"monthly_expenses"`
	OutstandingDebts       Amount `json:"outstanding_debts"`
	AidFromOthers          string `json:"aid_from_others"`
	ReasonForApplying      string `json:"reason_for_applying"`
	SpouseName             string `json:"spouse_name"`
	SpouseEmploymentStatus string `json:"spouse_employment_status"`
	Signature              string `json:"signature"`
	StatusDetail           string `json:"status_detail"`
}

// Application is one entry of GET /my-application.
type Application struct {
	ApplicationID  ID                  `json:"applicationId"`
	Status         ApplicationStatus   `json:"status"`
	SubmissionDate string              `json:"submissionDate"`
	LastUpdated    string              `json:"lastUpdated"`
	StaffName      string              `json:"staff_name"`
	Details        *ApplicationDetails `json:"details"`
}

func (a *Application) StatusTitle() string {
	if a.Status.Title == "" {
		return "Unknown Status"
	}
	return a.Status.Title
}

func (a *Application) StatusColor() string {
	if a.Status.Color == "" {
		return "secondary"
	}
	return a.Status.Color
}

func (a *Application) StatusDescription() string {
	if a.Status.Description == "" {
		return "No description available."
	}
	return a.Status.Description
}

func (a *Application) CaseOfficer() string {
	if a.StaffName == "" {
		return "N/A"
	}
	return a.StaffName
}

func (a *Application) DocumentsRequested() bool {
	return a.Status.Title == StatusDocumentsRequested
}

// Detail never returns nil so templates can read fields directly.
func (a *Application) Detail() *ApplicationDetails {
	if a.Details == nil {
		return &ApplicationDetails{}
	}
	return a.Details
}

type AsnafCategory struct {
	ID          ID     `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Dependent struct {
	Name         string `json:"name" form:"name"`
	Relationship string `json:"relationship" form:"relationship"`
	Age          string `json:"age" form:"age"`
}

// Attachment is a file forwarded to the backend in a multipart body.
type Attachment struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

type FormField struct {
	Name  string
	Value string
}

type DocumentPart struct {
	File     Attachment
	Category string
}

// ApplicationSubmission is the POST /applicant/apply multipart payload.
// Fields keep their order on the wire.
type ApplicationSubmission struct {
	Fields    []FormField
	Documents []DocumentPart
}

type UploadResult struct {
	Message string `json:"message"`
}

type SubmitResult struct {
	Message       string `json:"message"`
	ApplicationID ID     `json:"applicationId"`
}
