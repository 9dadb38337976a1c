package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/costline/internal/project"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListProjects loads projects and aliases with one joined query and folds
// the alias rows back onto their project.
func (s *Store) ListProjects(ctx context.Context) ([]*project.Project, error) {
	query := `
		SELECT p.id, p.name, p.code, a.alias
		FROM projects p
		LEFT JOIN project_aliases a ON a.project_id = p.id
		ORDER BY p.name ASC, p.id ASC, a.alias ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project

	byID := make(map[uuid.UUID]*project.Project)

	for rows.Next() {
		var (
			id         uuid.UUID
			name, code string
			alias      sql.NullString
		)

		if err := rows.Scan(&id, &name, &code, &alias); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		p, found := byID[id]
		if !found {
			p = &project.Project{ID: id, Name: name, Code: code}
			byID[id] = p
			projects = append(projects, p)
		}

		if alias.Valid && alias.String != "" {
			p.Aliases = append(p.Aliases, alias.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	return projects, nil
}
