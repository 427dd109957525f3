package migrations

import (
	"github.com/NeuralTrust/toolhub/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20251001_create_registry_tables",
		Name: "Create servers, tools, agents and agent_servers tables",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS servers (
					id         TEXT PRIMARY KEY,
					name       TEXT NOT NULL,
					url        TEXT NOT NULL DEFAULT '',
					status     TEXT NOT NULL DEFAULT 'active',
					enabled    BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS tools (
					id              TEXT PRIMARY KEY,
					name            TEXT NOT NULL,
					description     TEXT NOT NULL DEFAULT '',
					parameters      TEXT,
					server_id       TEXT NOT NULL REFERENCES servers(id) ON DELETE CASCADE,
					api_url         TEXT,
					http_method     TEXT,
					request_headers TEXT,
					request_body    TEXT,
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE(server_id, name)
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS agents (
					id          TEXT PRIMARY KEY,
					name        TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS agent_servers (
					agent_id  TEXT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
					server_id TEXT NOT NULL REFERENCES servers(id) ON DELETE CASCADE,
					PRIMARY KEY (agent_id, server_id)
				);
			`).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_tools_server_id
				ON tools (server_id);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			for _, table := range []string{"agent_servers", "agents", "tools", "servers"} {
				if err := db.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
					return err
				}
			}
			return nil
		},
	})
}
