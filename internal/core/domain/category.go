package domain

// CategoryKind separates expense types from income types.
type CategoryKind string

const (
	CategoryExpense CategoryKind = "EXPENSE"
	CategoryIncome  CategoryKind = "INCOME"
)

// Category is an expense type or income type rows can be allocated to.
// The engine only reads categories; their CRUD lives elsewhere.
type Category struct {
	ID       int64        `json:"id"`
	Kind     CategoryKind `json:"kind"`
	Name     string       `json:"name"`
	IsActive bool         `json:"isActive"`
}
