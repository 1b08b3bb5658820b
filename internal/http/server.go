package httpapp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/alphabot-ai/myblog/internal/article"
	"github.com/alphabot-ai/myblog/internal/auth"
	"github.com/alphabot-ai/myblog/internal/config"
	"github.com/alphabot-ai/myblog/internal/metrics"
	"github.com/alphabot-ai/myblog/internal/model"
	"github.com/alphabot-ai/myblog/internal/rate"
	"github.com/alphabot-ai/myblog/internal/session"
	"github.com/alphabot-ai/myblog/internal/store"
	"github.com/alphabot-ai/myblog/internal/validation"
)

const (
	msgLoginRequired      = "You must log in to view this page."
	msgBadCredentials     = "Invalid username or password."
	msgRegistered         = "You are now registered and can log in."
	msgLoggedIn           = "You are now logged in."
	msgArticleCreated     = "Article created."
	msgArticleUpdated     = "Article updated."
	msgArticleDeleted     = "Article deleted."
	msgCannotEdit         = "That article does not exist or you are not allowed to edit it."
	msgCannotDelete       = "That article does not exist or you are not allowed to delete it."
	msgNoSearchResults    = "No articles matched your search."
	msgInternalError      = "Something went wrong. Please try again."
	msgArticleNotFound    = "Article not found."
	msgPageNotFound       = "The page you are looking for does not exist."
	msgMethodNotAllowed   = "This page does not support that request method."
	msgBadForm            = "The submitted form could not be read."
	msgTooManyAttemptsFmt = "Too many attempts. Try again in %d seconds."
)

type Server struct {
	store     store.Store
	auth      *auth.Service
	articles  *article.Service
	sessions  *session.Manager
	limiter   rate.Limiter
	metrics   *metrics.Metrics
	logger    *zap.Logger
	cfg       config.Config
	templates *Templates
}

// Deps are the collaborators of a Server. Limiter, Metrics and Logger fall
// back to an in-memory limiter, a private registry and a no-op logger.
type Deps struct {
	Store    store.Store
	Auth     *auth.Service
	Articles *article.Service
	Sessions *session.Manager
	Limiter  rate.Limiter
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

func NewServer(deps Deps, cfg config.Config) (*Server, error) {
	if deps.Store == nil || deps.Auth == nil || deps.Articles == nil || deps.Sessions == nil {
		return nil, errors.New("httpapp: store, services and session manager are required")
	}
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	if deps.Limiter == nil {
		deps.Limiter = rate.NewMemory()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Server{
		store:     deps.Store,
		auth:      deps.Auth,
		articles:  deps.Articles,
		sessions:  deps.Sessions,
		limiter:   deps.Limiter,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

// Handler returns the router wrapped in request id, access log, metrics,
// session and panic recovery middleware.
func (s *Server) Handler() http.Handler {
	return withRequestID(s.observe(s.sessions.Middleware(s.recoverPanics(s))))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	segments := splitPath(path)

	switch {
	case path == "/":
		if r.Method == http.MethodGet {
			s.handleHome(w, r)
			return
		}
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	case path == "/about":
		if r.Method == http.MethodGet {
			s.handleAbout(w, r)
			return
		}
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	case path == "/register":
		switch r.Method {
		case http.MethodGet:
			s.handleRegisterForm(w, r)
		case http.MethodPost:
			s.handleRegister(w, r)
		default:
			s.methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	case path == "/login":
		switch r.Method {
		case http.MethodGet:
			s.handleLoginForm(w, r)
		case http.MethodPost:
			s.handleLogin(w, r)
		default:
			s.methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	case path == "/logout":
		if r.Method == http.MethodGet {
			s.handleLogout(w, r)
			return
		}
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	case path == "/dashboard":
		if r.Method == http.MethodGet {
			s.requireLogin(s.handleDashboard)(w, r)
			return
		}
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	case path == "/addarticle":
		switch r.Method {
		case http.MethodGet:
			s.requireLogin(s.handleAddArticleForm)(w, r)
		case http.MethodPost:
			s.requireLogin(s.handleAddArticle)(w, r)
		default:
			s.methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	case path == "/articles":
		if r.Method == http.MethodGet {
			s.handleArticles(w, r)
			return
		}
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	case len(segments) == 2 && segments[0] == "article":
		if r.Method == http.MethodGet {
			s.handleArticle(w, r, segments[1])
			return
		}
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	case len(segments) == 2 && segments[0] == "delete":
		if r.Method == http.MethodGet {
			s.requireLogin(s.withArticleID(segments[1], msgCannotDelete, s.handleDelete))(w, r)
			return
		}
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	case len(segments) == 2 && segments[0] == "edit":
		switch r.Method {
		case http.MethodGet:
			s.requireLogin(s.withArticleID(segments[1], msgCannotEdit, s.handleEditForm))(w, r)
		case http.MethodPost:
			s.requireLogin(s.withArticleID(segments[1], msgCannotEdit, s.handleEdit))(w, r)
		default:
			s.methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	case path == "/search":
		switch r.Method {
		case http.MethodGet:
			s.redirect(w, r, "/")
		case http.MethodPost:
			s.handleSearch(w, r)
		default:
			s.methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	case path == "/healthz":
		if r.Method == http.MethodGet {
			s.handleHealthz(w, r)
			return
		}
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	case path == "/metrics":
		if r.Method == http.MethodGet {
			s.metrics.Handler().ServeHTTP(w, r)
			return
		}
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	}

	s.notFound(w, r)
}

type gatedHandler func(w http.ResponseWriter, r *http.Request, p model.Principal)

// requireLogin runs h only for sessions that carry a principal. Anonymous
// callers get a warning notice and a redirect to the login page.
func (s *Server) requireLogin(h gatedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := session.FromContext(r.Context()).Principal()
		if !ok {
			s.redirectWithNotice(w, r, "/login", model.NoticeWarning, msgLoginRequired)
			return
		}
		h(w, r, p)
	}
}

type articleHandler func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64)

// withArticleID parses the id path segment. An unparsable id is handled like
// a missing article.
func (s *Server) withArticleID(idStr, denied string, h articleHandler) gatedHandler {
	return func(w http.ResponseWriter, r *http.Request, p model.Principal) {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			s.redirectWithNotice(w, r, "/", model.NoticeDanger, denied)
			return
		}
		h(w, r, p, id)
	}
}

func (s *Server) baseTemplateData(r *http.Request, title string) map[string]any {
	data := map[string]any{
		"Title":  title,
		"Form":   map[string]string{},
		"Errors": map[string]string{},
	}
	if p, ok := session.FromContext(r.Context()).Principal(); ok {
		data["CurrentUser"] = &p
	}
	return data
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.templates.Home, s.baseTemplateData(r, ""))
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.templates.About, s.baseTemplateData(r, "About"))
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.templates.Register, s.baseTemplateData(r, "Register"))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "register", s.cfg.RateLimits.RegisterPerMinute) {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, msgBadForm)
		return
	}
	in := auth.RegisterInput{
		Name:     r.PostFormValue("name"),
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}
	user, err := s.auth.Register(r.Context(), in)
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		s.metrics.Registration(metrics.ResultInvalid)
		data := s.baseTemplateData(r, "Register")
		data["Form"] = map[string]string{"name": in.Name, "username": in.Username, "email": in.Email}
		s.renderFormErrors(w, r, s.templates.Register, data, verr)
		return
	case err != nil:
		s.metrics.Registration(metrics.ResultError)
		s.serverError(w, r, err)
		return
	}
	s.metrics.Registration(metrics.ResultOK)
	s.logger.Info("user registered", zap.String("username", user.Username), zap.String("request_id", requestIDFrom(r.Context())))
	s.redirectWithNotice(w, r, "/login", model.NoticeSuccess, msgRegistered)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.templates.Login, s.baseTemplateData(r, "Log in"))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "login", s.cfg.RateLimits.LoginPerMinute) {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, msgBadForm)
		return
	}
	p, err := s.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		s.metrics.Login(metrics.ResultNotFound)
		s.redirectWithNotice(w, r, "/login", model.NoticeDanger, msgBadCredentials)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.metrics.Login(metrics.ResultInvalid)
		s.redirectWithNotice(w, r, "/login", model.NoticeDanger, msgBadCredentials)
		return
	case err != nil:
		s.metrics.Login(metrics.ResultError)
		s.serverError(w, r, err)
		return
	}
	s.metrics.Login(metrics.ResultOK)
	sess := session.FromContext(r.Context())
	sess.Clear()
	sess.Login(p)
	s.redirectWithNotice(w, r, "/", model.NoticeSuccess, msgLoggedIn)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).Clear()
	s.redirect(w, r, "/")
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, p model.Principal) {
	articles, err := s.articles.ListByAuthor(r.Context(), p)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data := s.baseTemplateData(r, "Dashboard")
	data["Articles"] = articles
	s.render(w, r, http.StatusOK, s.templates.Dashboard, data)
}

func (s *Server) handleAddArticleForm(w http.ResponseWriter, r *http.Request, _ model.Principal) {
	data := s.baseTemplateData(r, "New article")
	data["Action"] = "/addarticle"
	s.render(w, r, http.StatusOK, s.templates.AddArticle, data)
}

func (s *Server) handleAddArticle(w http.ResponseWriter, r *http.Request, p model.Principal) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, msgBadForm)
		return
	}
	in := article.Input{Title: r.PostFormValue("title"), Content: r.PostFormValue("content")}
	created, err := s.articles.Create(r.Context(), p, in)
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		s.metrics.ArticleOp("create", metrics.ResultInvalid)
		data := s.baseTemplateData(r, "New article")
		data["Action"] = "/addarticle"
		data["Form"] = map[string]string{"title": in.Title, "content": in.Content}
		s.renderFormErrors(w, r, s.templates.AddArticle, data, verr)
		return
	case err != nil:
		s.metrics.ArticleOp("create", metrics.ResultError)
		s.serverError(w, r, err)
		return
	}
	s.metrics.ArticleOp("create", metrics.ResultOK)
	s.logger.Info("article created",
		zap.Int64("article_id", created.ID),
		zap.String("author", created.Author),
		zap.String("request_id", requestIDFrom(r.Context())),
	)
	s.redirectWithNotice(w, r, "/dashboard", model.NoticeSuccess, msgArticleCreated)
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.articles.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
		return
	}
	data := s.baseTemplateData(r, "Articles")
	data["Articles"] = articles
	s.render(w, r, http.StatusOK, s.templates.Articles, data)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request, idStr string) {
	a, err := s.lookupArticle(r, idStr)
	if errors.Is(err, article.ErrNotFound) {
		if wantsJSON(r) {
			writeError(w, http.StatusNotFound, errors.New(msgArticleNotFound))
			return
		}
		s.render(w, r, http.StatusNotFound, s.templates.Article, s.baseTemplateData(r, msgArticleNotFound))
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"article": a})
		return
	}
	data := s.baseTemplateData(r, a.Title)
	data["Article"] = &a
	s.render(w, r, http.StatusOK, s.templates.Article, data)
}

func (s *Server) lookupArticle(r *http.Request, idStr string) (model.Article, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return model.Article{}, article.ErrNotFound
	}
	return s.articles.Get(r.Context(), id)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) {
	err := s.articles.Delete(r.Context(), p, id)
	if s.articleDenied(w, r, "delete", err, msgCannotDelete) {
		return
	}
	s.metrics.ArticleOp("delete", metrics.ResultOK)
	s.redirectWithNotice(w, r, "/dashboard", model.NoticeSuccess, msgArticleDeleted)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) {
	a, err := s.articles.GetOwned(r.Context(), p, id)
	if s.articleDenied(w, r, "edit", err, msgCannotEdit) {
		return
	}
	data := s.baseTemplateData(r, "Edit article")
	data["Action"] = fmt.Sprintf("/edit/%d", id)
	data["ArticleID"] = id
	data["Form"] = map[string]string{"title": a.Title, "content": a.Content}
	s.render(w, r, http.StatusOK, s.templates.Edit, data)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, msgBadForm)
		return
	}
	in := article.Input{Title: r.PostFormValue("title"), Content: r.PostFormValue("content")}
	_, err := s.articles.Update(r.Context(), p, id, in)
	var verr *validation.Error
	if errors.As(err, &verr) {
		s.metrics.ArticleOp("update", metrics.ResultInvalid)
		data := s.baseTemplateData(r, "Edit article")
		data["Action"] = fmt.Sprintf("/edit/%d", id)
		data["ArticleID"] = id
		data["Form"] = map[string]string{"title": in.Title, "content": in.Content}
		s.renderFormErrors(w, r, s.templates.Edit, data, verr)
		return
	}
	if s.articleDenied(w, r, "update", err, msgCannotEdit) {
		return
	}
	s.metrics.ArticleOp("update", metrics.ResultOK)
	s.redirectWithNotice(w, r, "/dashboard", model.NoticeSuccess, msgArticleUpdated)
}

// articleDenied writes the response for a failed ownership-scoped operation
// and reports whether it did.
func (s *Server) articleDenied(w http.ResponseWriter, r *http.Request, op string, err error, message string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, article.ErrNotFound):
		s.metrics.ArticleOp(op, metrics.ResultNotFound)
	case errors.Is(err, article.ErrNotOwner):
		s.metrics.ArticleOp(op, metrics.ResultDenied)
		s.logger.Warn("article ownership denied",
			zap.String("op", op),
			zap.String("request_id", requestIDFrom(r.Context())),
		)
	case errors.Is(err, article.ErrAnonymous):
		s.redirectWithNotice(w, r, "/login", model.NoticeWarning, msgLoginRequired)
		return true
	default:
		s.metrics.ArticleOp(op, metrics.ResultError)
		s.serverError(w, r, err)
		return true
	}
	s.redirectWithNotice(w, r, "/", model.NoticeDanger, message)
	return true
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, msgBadForm)
		return
	}
	keyword := r.PostFormValue("keyword")
	results, err := s.articles.Search(r.Context(), keyword)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"keyword": keyword, "articles": results})
		return
	}
	if len(results) == 0 {
		s.redirectWithNotice(w, r, "/articles", model.NoticeWarning, msgNoSearchResults)
		return
	}
	data := s.baseTemplateData(r, "Search")
	data["Keyword"] = strings.TrimSpace(keyword)
	data["Articles"] = results
	s.render(w, r, http.StatusOK, s.templates.Articles, data)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	// Counting users also proves the schema is migrated.
	users, err := s.store.CountUsers(r.Context())
	if err != nil {
		s.logger.Warn("health check failed", zap.String("check", "schema"), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "users": users})
}

func (s *Server) allowRateLimit(w http.ResponseWriter, r *http.Request, action string, limit int) bool {
	if limit <= 0 {
		return true
	}
	key := fmt.Sprintf("%s:ip:%s", action, s.clientIP(r))
	ok, retry := s.limiter.Allow(key, limit, time.Minute)
	if ok {
		return true
	}
	seconds := int(retry.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	s.renderError(w, r, http.StatusTooManyRequests, fmt.Sprintf(msgTooManyAttemptsFmt, seconds))
	return false
}

// clientIP keys rate limits on the peer address. X-Forwarded-For is only
// honoured behind a trusted proxy, using the hop that proxy appended.
func (s *Server) clientIP(r *http.Request) string {
	if s.cfg.TrustProxy {
		parts := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		if hop := strings.TrimSpace(parts[len(parts)-1]); hop != "" {
			return hop
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// render executes t into a buffer, consuming pending notices, and writes the
// page only once the session is saved.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, t *template.Template, data map[string]any) {
	sess := session.FromContext(r.Context())
	data["Notices"] = sess.PopNotices()

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render template",
			zap.String("template", t.Name()),
			zap.Error(err),
			zap.String("request_id", requestIDFrom(r.Context())),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.saveSession(w, r, sess)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderFormErrors(w http.ResponseWriter, r *http.Request, t *template.Template, data map[string]any, verr *validation.Error) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     "validation failed",
			"fields":    verr.ByField(),
			"duplicate": verr.Has(validation.KindDuplicate),
		})
		return
	}
	data["Errors"] = verr.ByField()
	s.render(w, r, http.StatusUnprocessableEntity, t, data)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if wantsJSON(r) {
		writeError(w, status, errors.New(message))
		return
	}
	data := s.baseTemplateData(r, http.StatusText(status))
	data["Status"] = status
	data["Message"] = message
	s.render(w, r, status, s.templates.Error, data)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
		zap.String("request_id", requestIDFrom(r.Context())),
	)
	s.renderError(w, r, http.StatusInternalServerError, msgInternalError)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, msgPageNotFound)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	s.renderError(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, target string) {
	s.saveSession(w, r, session.FromContext(r.Context()))
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) redirectWithNotice(w http.ResponseWriter, r *http.Request, target, category, message string) {
	session.FromContext(r.Context()).AddNotice(category, message)
	s.redirect(w, r, target)
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := s.sessions.Save(w, sess); err != nil {
		s.logger.Error("save session", zap.Error(err), zap.String("request_id", requestIDFrom(r.Context())))
	}
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
