package tool

import (
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tool struct {
	ID             string             `json:"id" gorm:"primaryKey;type:text"`
	Name           string             `json:"name" gorm:"not null"`
	Description    string             `json:"description"`
	Parameters     Parameters         `json:"parameters" gorm:"type:text"`
	ServerID       string             `json:"server_id" gorm:"not null"`
	APIURL         *string            `json:"api_url" gorm:"column:api_url"`
	HTTPMethod     *string            `json:"http_method" gorm:"column:http_method"`
	RequestHeaders domain.HeadersJSON `json:"request_headers,omitempty" gorm:"type:text"`
	RequestBody    domain.BodyJSON    `json:"request_body,omitempty" gorm:"type:text"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func (Tool) TableName() string {
	return "tools"
}

func (t *Tool) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	return t.Validate()
}

func (t *Tool) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

func (t *Tool) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.ServerID == "" {
		return fmt.Errorf("tool server_id is required")
	}
	return nil
}

// IsRemote reports whether the tool proxies to a configured HTTP endpoint.
func (t *Tool) IsRemote() bool {
	return t.APIURL != nil && strings.TrimSpace(*t.APIURL) != ""
}

// Method returns the declared HTTP method, GET when none is configured.
func (t *Tool) Method() string {
	if t.HTTPMethod == nil || strings.TrimSpace(*t.HTTPMethod) == "" {
		return "GET"
	}
	return strings.ToUpper(strings.TrimSpace(*t.HTTPMethod))
}

// Update is the full-replace payload accepted by update operations.
type Update struct {
	Name        string
	Description string
	Parameters  Parameters
	APIURL      *string
	HTTPMethod  *string
}

func (t *Tool) Apply(u Update) {
	t.Name = u.Name
	t.Description = u.Description
	t.Parameters = u.Parameters
	t.APIURL = u.APIURL
	t.HTTPMethod = u.HTTPMethod
}
