package validator

// Validator validates inbound request payloads. Decoding is left to the
// handlers; the validator only enforces field presence and value rules.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}
