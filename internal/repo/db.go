package repo

import (
	"Niquel/internal/model"
	"strings"

	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// InitDB открывает соединение и прогоняет миграции моделей.
// postgres-DSN — основной режим; иначе DSN трактуется как путь к SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		dial = gormpostgres.Open(dsn)
	} else {
		if dsn == "" {
			dsn = "niquel.db"
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Period{},
		&model.File{},
		&model.GeoPoint{},
		&model.GeoPointImage{},
		&model.UserAssignment{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
