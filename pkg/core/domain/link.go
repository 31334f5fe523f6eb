package domain

import "time"

// Link represents a shortened URL
type Link struct {
	ID        int64      `json:"id"`
	ShortCode string     `json:"short_code"`
	LongURL   string     `json:"long_url"`
	Clicks    int64      `json:"clicks"`
	OwnerID   *int64     `json:"owner_id,omitempty"` // nil for anonymous links
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsOwnedBy reports whether userID owns the link. Anonymous links have no owner.
func (l *Link) IsOwnedBy(userID int64) bool {
	return l.OwnerID != nil && *l.OwnerID == userID
}

// LinkSummary is what CreateLink hands back to callers.
type LinkSummary struct {
	ShortURL  string    `json:"short_url"`
	ShortCode string    `json:"short_code"`
	LongURL   string    `json:"long_url"`
	Owner     bool      `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	Clicks    int64     `json:"clicks"`
}

// Redirect is the outcome of resolving a short code.
type Redirect struct {
	TargetURL  string
	StatusCode int
}
