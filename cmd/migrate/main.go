// migrate runs the schema migrations and exits. Use it when the server
// starts with SKIP_MIGRATIONS=true.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/migrate
package main

import (
	"fmt"
	"os"

	"github.com/contaslab/contas_backend/config"
	"github.com/contaslab/contas_backend/models"
)

func main() {
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()
	fmt.Println("Migrations applied")
}
