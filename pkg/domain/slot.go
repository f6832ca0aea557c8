package domain

// SlotKind selects the normalization rule applied to a candidate value.
type SlotKind string

const (
	// SlotFreeText accepts any non-empty value; normalization only trims.
	SlotFreeText SlotKind = "free_text"
	// SlotChoice matches against AllowedValues by case-insensitive
	// bidirectional substring; first declared match wins.
	SlotChoice SlotKind = "choice"
	// SlotYesNo accepts yes/no style answers, canonicalized to "Yes"/"No".
	SlotYesNo SlotKind = "yes_no"
	// SlotReference accepts identifier-shaped values matching the slot's
	// Prefix followed by digits (case-insensitive).
	SlotReference SlotKind = "reference"
)

// SlotSpec describes one named piece of information the slot-filling
// workflow must collect. The declared order of slots in the catalog defines
// the fill order for required slots.
type SlotSpec struct {
	Name          string   `json:"name" yaml:"name"`
	Prompt        string   `json:"prompt" yaml:"prompt"`
	Kind          SlotKind `json:"kind" yaml:"kind"`
	AllowedValues []string `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`
	Required      bool     `json:"required" yaml:"required"`

	// Prefix is the identifier prefix for SlotReference slots, e.g. "REF".
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}
