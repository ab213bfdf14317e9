package database

import (
	"errors"
	"time"

	"github.com/avolkov/blogicum-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// PostPage is one page of a post listing together with the total number
// of posts matching the listing's filter.
type PostPage struct {
	Posts []*models.Post
	Total int64
}

// publiclyVisible narrows a posts query to what anonymous readers may
// see: published posts in published categories with a pub date not in
// the future.
func publiclyVisible(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ?", true).
			Where("categories.is_published = ?", true).
			Where("posts.pub_date <= ?", now)
	}
}

// FindVisiblePage returns one page of the public feed, newest first,
// with comment counts attached.
func (r *PostRepo) FindVisiblePage(page, perPage int, now time.Time) (*PostPage, error) {
	return r.findPage(r.db.Scopes(publiclyVisible(now)), page, perPage)
}

// FindVisibleByCategoryPage returns one page of a category's publicly
// visible posts, newest first.
func (r *PostRepo) FindVisibleByCategoryPage(categoryID uuid.UUID, page, perPage int, now time.Time) (*PostPage, error) {
	query := r.db.Scopes(publiclyVisible(now)).Where("posts.category_id = ?", categoryID)
	return r.findPage(query, page, perPage)
}

// FindByAuthorPage returns one page of every post by the given author,
// newest first, including unpublished and scheduled posts. Profile
// pages list the author's full history.
func (r *PostRepo) FindByAuthorPage(authorID uuid.UUID, page, perPage int) (*PostPage, error) {
	return r.findPage(r.db.Where("posts.author_id = ?", authorID), page, perPage)
}

func (r *PostRepo) findPage(query *gorm.DB, page, perPage int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []*models.Post
	err := query.Session(&gorm.Session{}).Model(&models.Post{}).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	if err := r.attachCommentCounts(posts); err != nil {
		return nil, err
	}

	return &PostPage{Posts: posts, Total: total}, nil
}

// attachCommentCounts fills CommentCount on each post with a single
// grouped query.
func (r *PostRepo) attachCommentCounts(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}

	type postCount struct {
		PostID uuid.UUID
		Count  int64
	}
	var counts []postCount
	err := r.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Find(&counts).Error
	if err != nil {
		return err
	}

	byPost := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byPost[c.PostID] = c.Count
	}
	for _, post := range posts {
		post.CommentCount = byPost[post.ID]
	}
	return nil
}

// FindByID returns a post with author, category and location preloaded,
// or nil if no such post exists.
func (r *PostRepo) FindByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new post into the database
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update updates an existing post in the database
func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// Delete removes a post and its comments. The comment delete is
// explicit so the cascade holds on engines that ship with foreign key
// enforcement off.
func (r *PostRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Comment{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", id).Error
	})
}
