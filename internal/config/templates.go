package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Journal Configuration

[journal]
# Owner id used by the CLI when no --owner flag is given
owner = "default"

[store]
# Record store backend: "sqlite" or "memory"
driver = "sqlite"
# Database file, relative paths are resolved against this directory
path = "journal.db"

[import]
# Number of rows persisted in parallel during an import
concurrency = 8
# Largest accepted upload in megabytes
max_file_mb = 10

[report]
# Number of scripts listed in the top-scripts table
top_scripts = 5
# Period used by "journal stats" without --period: all, today, week, month, year
default_period = "all"

[server]
# Listen address for "journal serve"
addr = "127.0.0.1:8080"

[logging]
# debug, info, warn, error
level = "info"
console = true
file = true
file_path = "logs/journal.log"
max_size = 50
max_backups = 5
max_age = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
