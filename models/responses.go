package models

// Envelope is the JSON body written for every mixin response.
type Envelope struct {
	// Data is the payload: a serialized instance, a list of them, or nil.
	Data any `json:"data"`

	// Message is a human-readable outcome or error description.
	Message string `json:"message"`
}
