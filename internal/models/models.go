package models

// All lists every model that takes part in schema migration.
func All() []any {
	return []any{&User{}, &Project{}, &ProjectReport{}, &AuditLog{}}
}
