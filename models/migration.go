package models

import (
	"log"

	"github.com/contaslab/contas_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Account{}, &Card{},
		&Category{}, &Budget{},
		&Transaction{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
