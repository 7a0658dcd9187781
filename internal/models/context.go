package models

import "net/http"

type contextKey struct {
	name string
}

// Universal context key to get the visitor from context
var VisitorContextKey = contextKey{name: "visitor"}

// GetVisitorFromContext gets the visitor from context
func GetVisitorFromContext(r *http.Request) *Visitor {
	visitor, _ := r.Context().Value(VisitorContextKey).(*Visitor)
	return visitor // nil if visitor not in context
}
