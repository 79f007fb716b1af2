package domain

// Exercise is a single timed stretch within a category. Immutable once
// loaded from the catalog; sessions work on snapshot copies.
type Exercise struct {
	ID           string `json:"id"`
	Ordinal      int    `json:"ordinal"`
	Name         string `json:"name"`
	Instructions string `json:"instructions,omitempty"`
	DurationSec  int    `json:"durationSec"`
	Restricted   bool   `json:"restricted"`
}
