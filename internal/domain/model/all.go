package model

// AutoMigrateの対象
func All() []interface{} {
	return []interface{}{
		&User{},
		&Address{},
		&Product{},
		&Fabric{},
		&DesignModel{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&CustomOrder{},
		&AuditLog{},
		&InventoryAdjustment{},
	}
}
