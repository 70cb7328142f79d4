package database

import (
	"gestaomv/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.RefreshToken{},
		&model.Unit{},
		&model.MaterialType{},
		&model.UnitOfMeasure{},
		&model.Material{},
		&model.MaterialRequest{},
		&model.RequestItem{},
		&model.AuditLog{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Seed loads the configuration tables: the role catalog and the catalog
// reference lists. Idempotent, run once per process at startup.
func Seed(db *gorm.DB, log *zap.Logger) error {
	for _, role := range model.DefaultRoles() {
		err := db.Where(model.Role{Name: role.Name}).
			Attrs(model.Role{Description: role.Description}).
			FirstOrCreate(&model.Role{}).Error
		if err != nil {
			return err
		}
	}

	for _, uom := range defaultUnitsOfMeasure() {
		err := db.Where(model.UnitOfMeasure{Name: uom.Name}).
			Attrs(model.UnitOfMeasure{Abbreviation: uom.Abbreviation}).
			FirstOrCreate(&model.UnitOfMeasure{}).Error
		if err != nil {
			return err
		}
	}

	for _, mt := range defaultMaterialTypes() {
		if err := db.Where(model.MaterialType{Name: mt.Name}).FirstOrCreate(&model.MaterialType{}).Error; err != nil {
			return err
		}
	}

	log.Info("database seed complete")
	return nil
}

func defaultUnitsOfMeasure() []model.UnitOfMeasure {
	return []model.UnitOfMeasure{
		{Name: "Unidade", Abbreviation: "UN"},
		{Name: "Caixa", Abbreviation: "CX"},
		{Name: "Pacote", Abbreviation: "PCT"},
		{Name: "Quilograma", Abbreviation: "KG"},
		{Name: "Litro", Abbreviation: "L"},
		{Name: "Metro", Abbreviation: "M"},
		{Name: "Resma", Abbreviation: "RM"},
	}
}

func defaultMaterialTypes() []model.MaterialType {
	return []model.MaterialType{
		{Name: "Escritório"},
		{Name: "Limpeza"},
		{Name: "Informática"},
		{Name: "Manutenção"},
		{Name: "Copa e cozinha"},
	}
}
