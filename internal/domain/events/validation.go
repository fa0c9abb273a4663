package events

import "fmt"

// FieldError reports a rejected event field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Categories an event may carry. The set is fixed by the campus catalog.
var allowedCategories = map[string]struct{}{
	"Art":                  {},
	"Math":                 {},
	"Science":              {},
	"Computer Science":     {},
	"History":              {},
	"Education":            {},
	"Political Science":    {},
	"Software Engineering": {},
	"Business":             {},
	"Sports":               {},
	"Honors":               {},
	"Workshops":            {},
	"Study Session":        {},
	"Dissertation":         {},
	"Performance":          {},
	"Competition":          {},
}

func IsAllowedCategory(value string) bool {
	_, ok := allowedCategories[value]
	return ok
}

func IsAllowedVisibility(value string) bool {
	switch value {
	case VisibilityPublic, VisibilityPrivate, VisibilityInactive:
		return true
	default:
		return false
	}
}

func validateCreate(params CreateParams) error {
	if params.Name == "" {
		return FieldError{Field: "name", Message: "must not be empty"}
	}
	if !IsAllowedCategory(params.Category) {
		return FieldError{Field: "category", Message: "not in the allowed set"}
	}
	if !IsAllowedVisibility(params.Visibility) {
		return FieldError{Field: "visibility", Message: "must be Public, Private, or Inactive"}
	}
	if params.CreatorID == "" {
		return FieldError{Field: "creatorID", Message: "must not be empty"}
	}
	return nil
}

func validateUpdate(params UpdateParams) error {
	if params.Category != nil && !IsAllowedCategory(*params.Category) {
		return FieldError{Field: "category", Message: "not in the allowed set"}
	}
	if params.Visibility != nil && !IsAllowedVisibility(*params.Visibility) {
		return FieldError{Field: "visibility", Message: "must be Public, Private, or Inactive"}
	}
	if params.Name != nil && *params.Name == "" {
		return FieldError{Field: "name", Message: "must not be empty"}
	}
	return nil
}
