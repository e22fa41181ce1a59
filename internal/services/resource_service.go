package services

import (
	"database/sql"

	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/google/uuid"
)

// ResourceServiceProvider defines the interface for course materials.
type ResourceServiceProvider interface {
	Create(resource models.Resource) (models.Resource, error)
	List(category string, week int) ([]models.Resource, error)
}

// ResourceService provides access to downloadable course materials.
type ResourceService struct {
	db *sql.DB
}

// NewResourceService creates a new ResourceService.
func NewResourceService(db *sql.DB) *ResourceService {
	return &ResourceService{db: db}
}

// Create stores a new course material entry.
func (s *ResourceService) Create(resource models.Resource) (models.Resource, error) {
	resource.ID = uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO resources (id, title, description, file_url, file_type, category, week, uploaded_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		resource.ID, resource.Title, resource.Description, resource.FileURL,
		resource.FileType, resource.Category, resource.Week, resource.UploadedBy)
	if err != nil {
		return models.Resource{}, err
	}

	row := s.db.QueryRow(
		`SELECT id, title, description, file_url, file_type, category, week, uploaded_by, created_at
		 FROM resources WHERE id = ?`, resource.ID)
	var out models.Resource
	err = row.Scan(&out.ID, &out.Title, &out.Description, &out.FileURL,
		&out.FileType, &out.Category, &out.Week, &out.UploadedBy, &out.CreatedAt)
	return out, err
}

// List returns materials, optionally filtered by category and/or week.
func (s *ResourceService) List(category string, week int) ([]models.Resource, error) {
	query := `SELECT id, title, description, file_url, file_type, category, week, uploaded_by, created_at
	          FROM resources WHERE 1=1`
	args := []any{}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	if week > 0 {
		query += " AND week = ?"
		args = append(args, week)
	}
	query += " ORDER BY week ASC, created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []models.Resource
	for rows.Next() {
		var r models.Resource
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.FileURL,
			&r.FileType, &r.Category, &r.Week, &r.UploadedBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}
