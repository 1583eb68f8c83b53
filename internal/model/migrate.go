package model

// All lists every table, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&HDTProfile{},
		&WorkSession{},
		&AITask{},
		&PhysiologicalData{},
		&WorkActivity{},
		&AIInteraction{},
	}
}
