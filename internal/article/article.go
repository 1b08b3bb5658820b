// Package article implements the article lifecycle: anyone may read, only
// authenticated principals may write, and only an article's author may
// change or remove it.
package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alphabot-ai/myblog/internal/model"
	"github.com/alphabot-ai/myblog/internal/store"
	"github.com/alphabot-ai/myblog/internal/validation"
)

var (
	ErrNotFound = errors.New("article: not found")
	// ErrNotOwner is returned when the principal is not the article's author.
	ErrNotOwner = errors.New("article: not owned by principal")
	// ErrAnonymous guards the service against callers that skipped the session gate.
	ErrAnonymous = errors.New("article: principal required")
)

type Input struct {
	Title   string `form:"title" validate:"min=5,max=100"`
	Content string `form:"content" validate:"min=10"`
}

var inputMessages = validation.Messages{
	"title":   "Title must be between 5 and 100 characters.",
	"content": "Content must be at least 10 characters.",
}

type Service struct {
	articles  store.ArticleStore
	validator *validation.Validator
	now       func() time.Time
}

func NewService(articles store.ArticleStore) *Service {
	return &Service{articles: articles, validator: validation.New(), now: time.Now}
}

// Validate checks an input without touching the store.
func (s *Service) Validate(in Input) error {
	return s.validator.Struct(in, inputMessages)
}

func (s *Service) List(ctx context.Context) ([]model.Article, error) {
	articles, err := s.articles.ListArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (s *Service) Get(ctx context.Context, id int64) (model.Article, error) {
	a, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Article{}, ErrNotFound
		}
		return model.Article{}, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// ListByAuthor returns the principal's own articles.
func (s *Service) ListByAuthor(ctx context.Context, p model.Principal) ([]model.Article, error) {
	if p.Username == "" {
		return nil, ErrAnonymous
	}
	articles, err := s.articles.ListArticlesByAuthor(ctx, p.Username)
	if err != nil {
		return nil, fmt.Errorf("list articles by author: %w", err)
	}
	return articles, nil
}

func (s *Service) Create(ctx context.Context, p model.Principal, in Input) (model.Article, error) {
	if p.Username == "" {
		return model.Article{}, ErrAnonymous
	}
	if err := s.Validate(in); err != nil {
		return model.Article{}, err
	}
	a := model.Article{
		Title:     in.Title,
		Author:    p.Username,
		Content:   in.Content,
		CreatedAt: s.now(),
	}
	id, err := s.articles.CreateArticle(ctx, &a)
	if err != nil {
		return model.Article{}, fmt.Errorf("create article: %w", err)
	}
	a.ID = id
	return a, nil
}

// GetOwned loads an article for editing.
func (s *Service) GetOwned(ctx context.Context, p model.Principal, id int64) (model.Article, error) {
	if p.Username == "" {
		return model.Article{}, ErrAnonymous
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return model.Article{}, err
	}
	if !a.OwnedBy(p) {
		return model.Article{}, ErrNotOwner
	}
	return a, nil
}

// Update replaces title and content. Id and author never change.
func (s *Service) Update(ctx context.Context, p model.Principal, id int64, in Input) (model.Article, error) {
	a, err := s.GetOwned(ctx, p, id)
	if err != nil {
		return model.Article{}, err
	}
	if err := s.Validate(in); err != nil {
		return model.Article{}, err
	}
	if err := s.articles.UpdateArticle(ctx, id, p.Username, in.Title, in.Content); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Article{}, ErrNotFound
		}
		return model.Article{}, fmt.Errorf("update article: %w", err)
	}
	a.Title = in.Title
	a.Content = in.Content
	return a, nil
}

func (s *Service) Delete(ctx context.Context, p model.Principal, id int64) error {
	if _, err := s.GetOwned(ctx, p, id); err != nil {
		return err
	}
	if err := s.articles.DeleteArticle(ctx, id, p.Username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// Search returns articles whose title contains keyword. An empty keyword
// matches every article.
func (s *Service) Search(ctx context.Context, keyword string) ([]model.Article, error) {
	articles, err := s.articles.SearchArticles(ctx, strings.TrimSpace(keyword))
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return articles, nil
}
