// Package httpapp provides the HTTP server for myblog.
//
// Pages are server rendered from embedded templates. Identity lives in a
// signed session cookie; pages that act on behalf of a user are wrapped in
// the login gate, and article mutations are additionally scoped to the
// article's author.
//
// Routes:
//
//	GET       /                  home
//	GET       /about             about
//	GET, POST /register          registration form
//	GET, POST /login             login form
//	GET       /logout            clear the session
//	GET       /dashboard         own articles (login required)
//	GET, POST /addarticle        new article (login required)
//	GET       /articles          all articles, JSON with Accept: application/json
//	GET       /article/{id}      article detail, JSON with Accept: application/json
//	GET, POST /edit/{id}         edit own article (login required)
//	GET       /delete/{id}       delete own article (login required)
//	GET, POST /search            title search; GET redirects home
//	GET       /healthz           store ping
//	GET       /metrics           prometheus exposition
package httpapp
