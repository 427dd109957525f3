package server

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusConnected = "connected"
	StatusActive    = "active"
)

type Server struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	Name      string    `json:"name" gorm:"not null"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Server) TableName() string {
	return "servers"
}

func (s *Server) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	return s.Validate()
}

func (s *Server) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now()
	return s.Validate()
}

func (s *Server) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("server name is required")
	}
	return nil
}

// Annotated is a Server plus the fields derived from the slot table.
type Annotated struct {
	Server
	ServerName string `json:"server_name"`
	Port       int    `json:"port"`
	IsActive   bool   `json:"is_active"`
}

// BaseURL returns the stored url, or the localhost address of the slot port.
func (a Annotated) BaseURL() string {
	if a.URL != "" {
		return a.URL
	}
	return fmt.Sprintf("http://localhost:%d", a.Port)
}

func Annotate(s Server) Annotated {
	return DefaultSlotTable.Annotate(s)
}

func AnnotateAll(servers []Server) []Annotated {
	out := make([]Annotated, 0, len(servers))
	for _, s := range servers {
		out = append(out, Annotate(s))
	}
	return out
}
