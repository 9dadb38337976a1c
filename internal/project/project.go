package project

import (
	"github.com/google/uuid"
)

// Project is a canonical capital project as held by the registry. The
// ingestion engine only ever reads it.
type Project struct {
	ID      uuid.UUID
	Name    string
	Code    string
	Aliases []string
}
