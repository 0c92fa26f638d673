package domain

import "time"

// Service represents a bookable service in a tenant's catalog.
// Duration and buffers drive slot generation; buffers are protective
// gaps and are never part of the stored appointment span.
type Service struct {
	ID       int64
	TenantID int64
	Name     string

	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int

	RequiresResource bool
	IsActive         bool
	IsPublic         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalSpanMinutes is the full footprint of one booking of this service:
// duration plus both buffers. Candidate slots must fit this span inside
// the business-hours window.
func (s *Service) TotalSpanMinutes() int {
	return s.DurationMinutes + s.BufferBeforeMinutes + s.BufferAfterMinutes
}

// Professional represents a staff member who can perform services.
type Professional struct {
	ID        int64
	TenantID  int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resource represents a physical resource (room, chair, equipment)
// a service may require.
type Resource struct {
	ID        int64
	TenantID  int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
