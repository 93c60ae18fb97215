package types

import (
	"fmt"
	"html/template"
	"strings"
)

type NavbarData struct {
	IsAuthenticated bool
	Username        string
	Greeting        string
	Active          string
}

// Is reports whether the current page sits under path.
func (n NavbarData) Is(path string) bool {
	return n.Active == path || strings.HasPrefix(n.Active, path+"/")
}

type PageDataSetter interface {
	SetNavbarData(data NavbarData)
	SetCSRFField(field template.HTML)
}

type BasePageData struct {
	Title     string
	Navbar    NavbarData
	CSRFField template.HTML
	Notice    string
	Error     string

	// Refresh, when set, sends the browser to RefreshURL after
	// RefreshSeconds.
	RefreshURL     string
	RefreshSeconds float64
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

func (d *BasePageData) SetCSRFField(field template.HTML) {
	d.CSRFField = field
}

// RefreshContent is the value of the meta refresh tag.
func (d *BasePageData) RefreshContent() string {
	return fmt.Sprintf("%g;url=%s", d.RefreshSeconds, d.RefreshURL)
}

type LoginPageData struct {
	BasePageData
	Username string
}

type RegisterPageData struct {
	BasePageData
	FullName    string
	NRIC        string
	FieldErrors map[string]string
}

type DashboardPageData struct {
	BasePageData
	Greeting string
}

type RedirectPageData struct {
	BasePageData
	Message string
}

type ApplicationsPageData struct {
	BasePageData
	Applications []Application
}

type ApplicationPageData struct {
	BasePageData
	Application *Application
	CanUpload   bool
	UploadDone  bool
}

type ProfilePageData struct {
	BasePageData
	Profile         *Profile
	Form            *ProfileUpdate
	MaritalStatuses []MaritalStatus
	Banks           []string
	Editing         bool
	LoadFailed      bool
}
