package migrations

import (
	"encoding/json"

	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/NeuralTrust/toolhub/pkg/infra/database"
	"gorm.io/gorm"
)

const (
	financeServerID = "finance-server-001"
	utilityServerID = "f2f47d1f-3fcd-4cee-b560-2a89f510a6f2"
)

type seedTool struct {
	id          string
	name        string
	description string
	parameters  tool.Parameters
}

var utilityTools = []seedTool{
	{
		id:          "b7a4c1d2-0001-4c3e-9a51-2f0e6d1c0a01",
		name:        "get_weather",
		description: "Get the current weather for a location",
		parameters: tool.Parameters{
			{Name: "location", Type: "string", Description: "City or place name", Required: true},
		},
	},
	{
		id:          "b7a4c1d2-0002-4c3e-9a51-2f0e6d1c0a02",
		name:        "get_time",
		description: "Get the current time for a location",
		parameters: tool.Parameters{
			{Name: "location", Type: "string", Description: "City or timezone name"},
		},
	},
	{
		id:          "b7a4c1d2-0003-4c3e-9a51-2f0e6d1c0a03",
		name:        "data_processor",
		description: "Process a data payload",
		parameters: tool.Parameters{
			{Name: "action", Type: "string", Description: "Processing action"},
			{Name: "data", Type: "object", Description: "Data to process"},
		},
	},
	{
		id:          "b7a4c1d2-0004-4c3e-9a51-2f0e6d1c0a04",
		name:        "text_analyzer",
		description: "Count words and characters in a text",
		parameters: tool.Parameters{
			{Name: "text", Type: "string", Description: "Text to analyze", Required: true},
		},
	},
	{
		id:          "b7a4c1d2-0005-4c3e-9a51-2f0e6d1c0a05",
		name:        "api_client",
		description: "Call an external API (mock response)",
		parameters: tool.Parameters{
			{Name: "url", Type: "string", Description: "Target url"},
			{Name: "method", Type: "string", Description: "HTTP method"},
		},
	},
}

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20251002_seed_default_servers",
		Name: "Seed the finance and utility tool servers",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				INSERT INTO servers (id, name, url, status, enabled)
				VALUES (?, ?, ?, 'active', TRUE), (?, ?, ?, 'active', TRUE)
				ON CONFLICT (id) DO NOTHING;
			`,
				financeServerID, "finance-server", "http://localhost:3001",
				utilityServerID, "MCP Server 2", "http://localhost:3002",
			).Error; err != nil {
				return err
			}

			for _, t := range utilityTools {
				params, err := json.Marshal(t.parameters)
				if err != nil {
					return err
				}
				if err := db.Exec(`
					INSERT INTO tools (id, name, description, parameters, server_id)
					VALUES (?, ?, ?, ?, ?)
					ON CONFLICT DO NOTHING;
				`, t.id, t.name, t.description, string(params), utilityServerID).Error; err != nil {
					return err
				}
			}
			return nil
		},

		Down: func(db *gorm.DB) error {
			ids := make([]string, 0, len(utilityTools))
			for _, t := range utilityTools {
				ids = append(ids, t.id)
			}
			if err := db.Exec("DELETE FROM tools WHERE id IN ?", ids).Error; err != nil {
				return err
			}
			return db.Exec("DELETE FROM servers WHERE id IN ?", []string{financeServerID, utilityServerID}).Error
		},
	})
}
