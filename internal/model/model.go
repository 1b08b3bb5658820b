package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the authenticated identity attached to a session after a
// successful login. A session without a Principal is anonymous.
type Principal struct {
	Username string `json:"username"`
}

// Article.Author holds the author's username, copied at creation time. It is
// never rewritten by an update.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether p may edit or delete the article.
func (a Article) OwnedBy(p Principal) bool {
	return p.Username != "" && a.Author == p.Username
}

const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeDanger  = "danger"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}
