package entity

// Listing is one row of the flat-file listings source keyed by column name.
// Numeric cells hold int64 or float64 values, all other cells strings.
type Listing map[string]any
