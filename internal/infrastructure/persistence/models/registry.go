package models

// All returns every persistence model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&OrganizationModel{},
		&UserModel{},
		&ConfigurationModel{},
		&UsageRecordModel{},
		&ProductModel{},
		&SupplierModel{},
		&TemperatureLogModel{},
		&CleaningPlanModel{},
		&RoomCleaningModel{},
		&MaterialReceptionModel{},
	}
}
