// Package navigation provides utilities for managing navigation state and breadcrumbs.
package navigation

// Sections of the panel navigation bar.
const (
	SectionHome        = "home"
	SectionLogin       = "login"
	SectionUsers       = "users"
	SectionPermissions = "permissions"
	SectionUserGroups  = "usergroups"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// ForPage creates the context of a panel page: a Home breadcrumb followed by the
// active page. The home page itself only gets the active Home breadcrumb.
func ForPage(pageTitle, section string) *Context {
	c := NewContext(pageTitle, section)

	if section == SectionHome {
		return c.AddBreadcrumb("Home", "/", true)
	}

	return c.AddBreadcrumb("Home", "/", false).
		AddBreadcrumb(pageTitle, "/pages/"+section, true)
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
