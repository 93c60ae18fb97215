// Package application holds the aid application draft the apply form
// edits, and the tracker behind the status view.
package application

import (
	"context"
	"fmt"
	"strconv"

	"zakatportal/pkg/types"

	json "github.com/goccy/go-json"
)

const (
	MsgDocumentType = "Please select a type for each uploaded document."
	MsgDeclaration  = "Please agree to the declaration and consent."
	MsgUnknown      = "An unknown error occurred."
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Draft is the apply form state. It only lives for the request that
// renders or submits it.
type Draft struct {
	CategoryID             string `form:"category_id"`
	EmploymentStatus       string `form:"employment_status"`
	EmployerName           string `form:"employer_name"`
	EmployerAddress        string `form:"employer_address"`
	InstituteName          string `form:"institute_name"`
	MonthlyIncome          string `form:"monthly_income"`
	OtherIncomeSources     string `form:"other_income_sources"`
	TotalHouseholdIncome   string `form:"total_household_income"`
	MonthlyExpenses        string `form:"monthly_expenses"`
	OutstandingDebts       string `form:"outstanding_debts"`
	AidFromOthers          string `form:"aid_from_others"`
	ReasonForApplying      string `form:"reason_for_applying"`
	SpouseName             string `form:"spouse_name"`
	SpouseEmploymentStatus string `form:"spouse_employment_status"`
	Declaration            bool   `form:"declaration"`
	Consent                bool   `form:"consent"`
	Signature              string `form:"signature"`

	Dependents    []types.Dependent `form:"dependents"`
	DocumentTypes []string          `form:"document_types"`

	// Documents are the rows that carry a file, paired with their category.
	Documents []types.DocumentPart `form:"-"`
}

func (d *Draft) Employed() bool {
	return d.EmploymentStatus == types.EmploymentEmployed
}

func (d *Draft) Student() bool {
	return d.EmploymentStatus == types.EmploymentStudent
}

func (d *Draft) AddDependent() {
	d.Dependents = append(d.Dependents, types.Dependent{})
}

// RemoveDependent drops the dependent at i. Out of range is a no-op.
func (d *Draft) RemoveDependent(i int) {
	if i < 0 || i >= len(d.Dependents) {
		return
	}
	d.Dependents = append(d.Dependents[:i], d.Dependents[i+1:]...)
}

// DocumentType returns the category picked for document row i.
func (d *Draft) DocumentType(i int) string {
	if i < 0 || i >= len(d.DocumentTypes) {
		return ""
	}
	return d.DocumentTypes[i]
}

// Validate reports the first rule that blocks submission.
func (d *Draft) Validate() error {
	if !d.Declaration || !d.Consent {
		return &ValidationError{Message: MsgDeclaration}
	}

	for _, doc := range d.Documents {
		if !types.IsDocumentType(doc.Category) {
			return &ValidationError{Message: MsgDocumentType}
		}
	}

	return nil
}

// Submission assembles the multipart payload. Fields that do not apply to
// the selected employment status are sent blank.
func (d *Draft) Submission() (*types.ApplicationSubmission, error) {
	employerName, employerAddress, instituteName := "", "", ""
	if d.Employed() {
		employerName, employerAddress = d.EmployerName, d.EmployerAddress
	}
	if d.Student() {
		instituteName = d.InstituteName
	}

	dependents := d.Dependents
	if dependents == nil {
		dependents = []types.Dependent{}
	}

	encoded, err := json.Marshal(dependents)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dependents: %w", err)
	}

	return &types.ApplicationSubmission{
		Fields: []types.FormField{
			{Name: "category_id", Value: d.CategoryID},
			{Name: "employment_status", Value: d.EmploymentStatus},
			{Name: "employer_name", Value: employerName},
			{Name: "employer_address", Value: employerAddress},
			{Name: "institute_name", Value: instituteName},
			{Name: "monthly_income", Value: d.MonthlyIncome},
			{Name: "other_income_sources", Value: d.OtherIncomeSources},
			{Name: "total_household_income", Value: d.TotalHouseholdIncome},
			{Name: "monthly_expenses", Value: d.MonthlyExpenses},
			{Name: "outstanding_debts", Value: d.OutstandingDebts},
			{Name: "aid_from_others", Value: d.AidFromOthers},
			{Name: "reason_for_applying", Value: d.ReasonForApplying},
			{Name: "spouse_name", Value: d.SpouseName},
			{Name: "spouse_employment_status", Value: d.SpouseEmploymentStatus},
			{Name: "declaration", Value: strconv.FormatBool(d.Declaration)},
			{Name: "consent", Value: strconv.FormatBool(d.Consent)},
			{Name: "signature", Value: d.Signature},
			{Name: "dependents", Value: string(encoded)},
		},
		Documents: d.Documents,
	}, nil
}

type Submitter interface {
	SubmitApplication(ctx context.Context, submission *types.ApplicationSubmission) (*types.SubmitResult, error)
}

// Submit validates the draft and sends it in one call. A validation
// failure never reaches the backend.
func Submit(ctx context.Context, submitter Submitter, d *Draft) (*types.SubmitResult, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	submission, err := d.Submission()
	if err != nil {
		return nil, err
	}

	result, err := submitter.SubmitApplication(ctx, submission)
	if err != nil {
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}

	return result, nil
}
