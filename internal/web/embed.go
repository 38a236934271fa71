package web

import (
	"embed"
	"io/fs"
	"net/http"
)

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates/*
	embeddedTemplates embed.FS
)

// templatesFS serves the templates directory as the template root, so
// "layouts/base" resolves to templates/layouts/base.gohtml.
func templatesFS() http.FileSystem {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// the embed directive guarantees the directory
		panic(err)
	}

	return http.FS(sub)
}
