package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldProjectID  = "project_id"
	FieldRubroID    = "rubro_id"
	FieldMonth      = "month"
	FieldCategory   = "category"
	FieldRole       = "role"
	FieldKey        = "key"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldCount      = "count"
	FieldError      = "error"
	FieldFile       = "file_path"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldRunID      = "run_id"
)
