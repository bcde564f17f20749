// Package recordtypes defines the conversational record types shared by grammateus.
// Source records arrive as untyped decoded values in the Gemini "parts/role" shape;
// they are validated into flat "role/text" Records.
package recordtypes

// Source (Gemini contents) field names and role.
const (
	FieldRole  = "role"
	FieldParts = "parts"
	FieldText  = "text"

	SourceRoleUser  = "user"
	SourceRoleModel = "model"
)

// Target roles.
const (
	RoleHuman   = "Human"
	RoleMachine = "machine"
)

// Record is one validated conversation turn in the flat target shape.
// Field order matters: encoders emit role before text.
// Text holds the source value as decoded, usually a string but possibly any scalar.
type Record struct {
	Role string `yaml:"role" json:"role"`
	Text any    `yaml:"text" json:"text"`
}

// Part is a single text fragment of a source record.
type Part struct {
	Text string `yaml:"text" json:"text"`
}

// Content is a typed source record, used when grammateus itself produces parts/role data.
type Content struct {
	Role  string `yaml:"role" json:"role"`
	Parts []Part `yaml:"parts" json:"parts"`
}

// MapRole maps a source role value to its target role.
// Only the exact string "user" becomes Human; everything else, including
// non-string and unknown values, becomes machine.
func MapRole(role any) string {
	if s, ok := role.(string); ok && s == SourceRoleUser {
		return RoleHuman
	}
	return RoleMachine
}
