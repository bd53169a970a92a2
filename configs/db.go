package configs

import (
	"delivergo/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(source string) {
	database, err := gorm.Open(sqlite.Open(source), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {
	db.AutoMigrate(
		&entity.User{},
		&entity.Restaurant{},
		&entity.Menu{}, &entity.Variation{}, &entity.Addon{},
		&entity.Order{}, &entity.OrderItem{}, &entity.OrderItemVariation{}, &entity.OrderItemAddon{},
		&entity.TrackingEvent{},
		&entity.Commission{}, &entity.Payout{}, &entity.Adjustment{},
		&entity.Dispute{},
	)
}
