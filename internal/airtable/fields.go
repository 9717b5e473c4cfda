package airtable

// StringField reads a string field, returning "" when absent or of another
// type.
func StringField(r *Record, key string) string {
	if r == nil {
		return ""
	}
	v, _ := r.Fields[key].(string)
	return v
}

// BoolField reads a checkbox field, returning false when absent.
func BoolField(r *Record, key string) bool {
	if r == nil {
		return false
	}
	v, _ := r.Fields[key].(bool)
	return v
}
