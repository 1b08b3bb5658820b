package httpapp

import (
	"embed"
	"html/template"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

type Templates struct {
	Home       *template.Template
	About      *template.Template
	Register   *template.Template
	Login      *template.Template
	Dashboard  *template.Template
	AddArticle *template.Template
	Edit       *template.Template
	Articles   *template.Template
	Article    *template.Template
	Error      *template.Template
}

func loadTemplates() (*Templates, error) {
	funcs := template.FuncMap{
		"formatTime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"statusText": http.StatusText,
	}

	layoutContent, err := templateFS.ReadFile("templates/layout.html")
	if err != nil {
		return nil, err
	}

	// Each page is the layout plus its own "content" and any shared partials.
	makePage := func(pageName string, partials ...string) (*template.Template, error) {
		t, err := template.New("layout").Funcs(funcs).Parse(string(layoutContent))
		if err != nil {
			return nil, err
		}
		for _, name := range append(partials, pageName) {
			content, err := templateFS.ReadFile("templates/" + name + ".html")
			if err != nil {
				return nil, err
			}
			if t, err = t.Parse(string(content)); err != nil {
				return nil, err
			}
		}
		return t, nil
	}

	var tmpl Templates
	pages := []struct {
		dst      **template.Template
		name     string
		partials []string
	}{
		{&tmpl.Home, "home", nil},
		{&tmpl.About, "about", nil},
		{&tmpl.Register, "register", nil},
		{&tmpl.Login, "login", nil},
		{&tmpl.Dashboard, "dashboard", nil},
		{&tmpl.AddArticle, "addarticle", []string{"article_form"}},
		{&tmpl.Edit, "edit", []string{"article_form"}},
		{&tmpl.Articles, "articles", nil},
		{&tmpl.Article, "article", nil},
		{&tmpl.Error, "error", nil},
	}
	for _, p := range pages {
		t, err := makePage(p.name, p.partials...)
		if err != nil {
			return nil, err
		}
		*p.dst = t
	}
	return &tmpl, nil
}
