package models

// Category represents a row of the categories table.
type Category struct {
	CategoryID int64
	Kind       string
	Name       string
	IsActive   bool
}
