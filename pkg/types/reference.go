package types

// Banks offered in the registration and profile forms.
var Banks = []string{
	"Maybank",
	"CIMB Bank",
	"Public Bank Berhad",
	"RHB Bank",
	"Hong Leong Bank",
	"AmBank",
	"Bank Islam Malaysia Berhad",
	"Bank Simpanan Nasional (BSN)",
	"Bank Rakyat",
	"Affin Bank",
	"Alliance Bank",
	"Standard Chartered Bank Malaysia",
	"HSBC Bank Malaysia",
	"OCBC Bank Malaysia",
	"UOB Malaysia",
	"Other",
}

const (
	EmploymentEmployed      = "Employed"
	EmploymentUnemployed    = "Unemployed"
	EmploymentSelfEmployed  = "Self-employed"
	EmploymentStudent       = "Student"
	EmploymentRetired       = "Retired"
	EmploymentNotApplicable = "Not Applicable"
)

var EmploymentStatuses = []string{
	EmploymentEmployed,
	EmploymentUnemployed,
	EmploymentSelfEmployed,
	EmploymentStudent,
	EmploymentRetired,
}

var SpouseEmploymentStatuses = append(append([]string{}, EmploymentStatuses...), EmploymentNotApplicable)

// Document type constants
const (
	DocTypeIDCard        = "ID Card"
	DocTypePayslip       = "Payslip"
	DocTypeUtilityBill   = "Utility Bill"
	DocTypeBankStatement = "Bank Statement"
	DocTypeMedicalReport = "Medical Report"
	DocTypeOther         = "Other"
)

type DocumentTypeOption struct {
	Value string
	Label string
}

var DocumentTypes = []DocumentTypeOption{
	{Value: DocTypeIDCard, Label: "ID Card / MyKad"},
	{Value: DocTypePayslip, Label: "Payslip"},
	{Value: DocTypeUtilityBill, Label: "Utility Bill"},
	{Value: DocTypeBankStatement, Label: "Bank Statement"},
	{Value: DocTypeMedicalReport, Label: "Medical Report"},
	{Value: DocTypeOther, Label: "Other"},
}

func IsDocumentType(v string) bool {
	for _, opt := range DocumentTypes {
		if opt.Value == v {
			return true
		}
	}
	return false
}
