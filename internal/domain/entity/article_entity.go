package entity

import (
	"regexp"
	"time"
)

// Article is a short text document owned by the article store.
// Author and CreateDate are set once at creation.
type Article struct {
	ID         string
	Title      string
	Body       string
	Author     string
	CreateDate time.Time
}

var articleIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,512}$`)

// ValidArticleID reports whether id has the shape of a store-generated identifier.
func ValidArticleID(id string) bool {
	return articleIDPattern.MatchString(id)
}
