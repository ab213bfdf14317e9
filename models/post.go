package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a publication. It is publicly visible only when it is
// published, its category is published, and its pub date is not in the
// future; the author always sees their own posts.
type Post struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string     `json:"title" db:"title" gorm:"type:text;not null"`
	Text        string     `json:"text" db:"text" gorm:"type:text;not null"`
	ImagePath   string     `json:"imagePath,omitempty" db:"image_path" gorm:"type:text"`
	PubDate     time.Time  `json:"pubDate" db:"pub_date" gorm:"not null;index"`
	IsPublished bool       `json:"isPublished" db:"is_published" gorm:"not null;default:true"`
	AuthorID    uuid.UUID  `json:"authorId" db:"author_id" gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID  `json:"categoryId" db:"category_id" gorm:"type:uuid;not null;index"`
	LocationID  *uuid.UUID `json:"locationId,omitempty" db:"location_id" gorm:"type:uuid;index"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" gorm:"not null"`

	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"`
	Location *Location `json:"location,omitempty" gorm:"foreignKey:LocationID;references:ID"`
	Comments []Comment `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`

	// Filled by the repository for listings, not a column.
	CommentCount int64 `json:"commentCount" gorm:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PubDate.IsZero() {
		p.PubDate = time.Now()
	}
	return nil
}

// VisibleTo reports whether the post may be shown to the given user ID
// (uuid.Nil for anonymous callers). Category must be preloaded.
func (p *Post) VisibleTo(userID uuid.UUID, now time.Time) bool {
	if userID != uuid.Nil && userID == p.AuthorID {
		return true
	}
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	return p.Category != nil && p.Category.IsPublished
}
