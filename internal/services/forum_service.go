package services

import (
	"database/sql"

	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/google/uuid"
)

// ForumServiceProvider defines the interface for forum services.
type ForumServiceProvider interface {
	CreatePost(userID, title, content, category string) (models.ForumPost, error)
	GetPost(id string) (models.ForumPost, []models.ForumReply, error)
	ListPosts(category string, limit int) ([]models.ForumPost, error)
	CreateReply(postID, userID, content string) (models.ForumReply, error)
}

// ForumService provides business logic for the student forum.
type ForumService struct {
	db *sql.DB
}

// NewForumService creates a new ForumService.
func NewForumService(db *sql.DB) *ForumService {
	return &ForumService{db: db}
}

// CreatePost opens a new forum thread.
func (s *ForumService) CreatePost(userID, title, content, category string) (models.ForumPost, error) {
	if category == "" {
		category = "general"
	}
	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO forum_posts (id, user_id, title, content, category) VALUES (?, ?, ?, ?, ?)",
		id, userID, title, content, category)
	if err != nil {
		return models.ForumPost{}, err
	}
	return s.getPostByID(id)
}

// GetPost returns a thread and its replies, oldest reply first.
func (s *ForumService) GetPost(id string) (models.ForumPost, []models.ForumReply, error) {
	post, err := s.getPostByID(id)
	if err != nil {
		return models.ForumPost{}, nil, err
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.post_id, r.user_id, u.first_name || ' ' || u.last_name,
		        r.content, r.created_at, r.updated_at
		 FROM forum_replies r JOIN users u ON u.id = r.user_id
		 WHERE r.post_id = ? ORDER BY r.created_at ASC`, id)
	if err != nil {
		return models.ForumPost{}, nil, err
	}
	defer rows.Close()

	var replies []models.ForumReply
	for rows.Next() {
		var reply models.ForumReply
		if err := rows.Scan(&reply.ID, &reply.PostID, &reply.UserID, &reply.AuthorName,
			&reply.Content, &reply.CreatedAt, &reply.UpdatedAt); err != nil {
			return models.ForumPost{}, nil, err
		}
		replies = append(replies, reply)
	}
	return post, replies, rows.Err()
}

// ListPosts returns recent threads, pinned first, optionally filtered by
// category.
func (s *ForumService) ListPosts(category string, limit int) ([]models.ForumPost, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT p.id, p.user_id, u.first_name || ' ' || u.last_name,
	                 p.title, p.content, p.category, p.is_pinned,
	                 (SELECT COUNT(*) FROM forum_replies WHERE post_id = p.id),
	                 p.created_at, p.updated_at
	          FROM forum_posts p JOIN users u ON u.id = p.user_id`
	args := []any{}
	if category != "" {
		query += " WHERE p.category = ?"
		args = append(args, category)
	}
	query += " ORDER BY p.is_pinned DESC, p.created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.ForumPost
	for rows.Next() {
		var post models.ForumPost
		if err := rows.Scan(&post.ID, &post.UserID, &post.AuthorName, &post.Title,
			&post.Content, &post.Category, &post.IsPinned, &post.ReplyCount,
			&post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// CreateReply adds a reply to an existing thread.
func (s *ForumService) CreateReply(postID, userID, content string) (models.ForumReply, error) {
	if _, err := s.getPostByID(postID); err != nil {
		return models.ForumReply{}, err
	}

	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO forum_replies (id, post_id, user_id, content) VALUES (?, ?, ?, ?)",
		id, postID, userID, content)
	if err != nil {
		return models.ForumReply{}, err
	}

	var reply models.ForumReply
	row := s.db.QueryRow(
		`SELECT r.id, r.post_id, r.user_id, u.first_name || ' ' || u.last_name,
		        r.content, r.created_at, r.updated_at
		 FROM forum_replies r JOIN users u ON u.id = r.user_id WHERE r.id = ?`, id)
	err = row.Scan(&reply.ID, &reply.PostID, &reply.UserID, &reply.AuthorName,
		&reply.Content, &reply.CreatedAt, &reply.UpdatedAt)
	return reply, err
}

func (s *ForumService) getPostByID(id string) (models.ForumPost, error) {
	var post models.ForumPost
	row := s.db.QueryRow(
		`SELECT p.id, p.user_id, u.first_name || ' ' || u.last_name,
		        p.title, p.content, p.category, p.is_pinned,
		        (SELECT COUNT(*) FROM forum_replies WHERE post_id = p.id),
		        p.created_at, p.updated_at
		 FROM forum_posts p JOIN users u ON u.id = p.user_id WHERE p.id = ?`, id)
	err := row.Scan(&post.ID, &post.UserID, &post.AuthorName, &post.Title,
		&post.Content, &post.Category, &post.IsPinned, &post.ReplyCount,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ForumPost{}, ErrNotFound
		}
		return models.ForumPost{}, err
	}
	return post, nil
}
