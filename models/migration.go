package models

import (
	"log"

	"github.com/smartbuild-mm/smartbuild_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Device{},
		&Client{}, &Project{},
		&BuildSystem{}, &ProjectPlan{},
		&Location{}, &DeviceAssignment{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
