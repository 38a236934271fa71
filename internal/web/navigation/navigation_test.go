package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Users", SectionUsers)

	assert.Equal(t, "Users", ctx.PageTitle)
	assert.Equal(t, SectionUsers, ctx.ActiveSection)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Users", SectionUsers).
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Users", "/pages/users", true)

	assert.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "/", ctx.Breadcrumbs[0].URL)
	assert.False(t, ctx.Breadcrumbs[0].Active)
	assert.True(t, ctx.Breadcrumbs[1].Active)
}

func TestForPage(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		section  string
		expected []BreadcrumbItem
	}{
		{
			name:     "home",
			title:    "Home",
			section:  SectionHome,
			expected: []BreadcrumbItem{{Title: "Home", URL: "/", Active: true}},
		},
		{
			name:    "user groups",
			title:   "User groups",
			section: SectionUserGroups,
			expected: []BreadcrumbItem{
				{Title: "Home", URL: "/"},
				{Title: "User groups", URL: "/pages/usergroups", Active: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := ForPage(tc.title, tc.section)

			assert.Equal(t, tc.expected, ctx.Breadcrumbs)
			assert.True(t, ctx.IsSectionActive(tc.section))
			assert.False(t, ctx.IsSectionActive("other"))
		})
	}
}
