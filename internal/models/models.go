package models

// All returns every persisted model, in dependency order, for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&TPSProfile{},
		&WasteCategory{},
		&PickupRequest{},
		&PickupItem{},
		&PickupStatusHistory{},
		&Transaction{},
		&PaymentConfig{},
		&Notification{},
		&MasterMenu{},
		&LogScheduler{},
	}
}
