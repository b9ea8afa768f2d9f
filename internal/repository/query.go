package repository

// Query narrows a list operation.
type Query struct {
	// WithDeleted includes soft-deleted rows.
	WithDeleted bool
}

func NewQuery() *Query {
	return &Query{}
}

// IncludeDeleted makes the query return soft-deleted rows as well.
func (q *Query) IncludeDeleted() *Query {
	q.WithDeleted = true
	return q
}
