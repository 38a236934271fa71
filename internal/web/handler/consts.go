package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path of the route table.
	RootPath = "/"

	// APIPrefix is the path prefix of the JSON API. Errors below it are answered with JSON.
	APIPrefix = "/api"

	// AccessDeniedPath is the page shown to users lacking a permission.
	AccessDeniedPath = "/pages/access_denied"

	// ContentTypeJSON is the content type of every JSON response.
	ContentTypeJSON = "application/json;charset=UTF-8"

	// ErrNilDepsFatalLogMsg is used if the table or a dependency is nil.
	ErrNilDepsFatalLogMsg = "route table or handler dependencies are nil"
)
