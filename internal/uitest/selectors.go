package uitest

import (
	"fmt"

	"github.com/stolasapp/todo/internal/app/component"
)

// CSS selectors built from component constants.
// These ensure test selectors stay in sync with the component DOM structure.

// Element selectors.
var (
	// SelectorTodoList selects the todo list by ID.
	SelectorTodoList = "#" + component.IDTodoList

	// SelectorTodoItem selects every rendered todo.
	SelectorTodoItem = SelectorTodoList + " > li[" + component.DataAttrTodoID + "]"

	// SelectorFormErrors selects the error list shown above a form.
	SelectorFormErrors = "#" + component.IDFormErrors

	// SelectorLoginForm selects the login form by ID.
	SelectorLoginForm = "#" + component.IDLoginForm

	// SelectorTodoForm selects the add/edit todo form by ID.
	SelectorTodoForm = "#" + component.IDTodoForm

	// SelectorSiteHeader selects the site header by class.
	SelectorSiteHeader = "header." + component.ClassSiteHeader

	// SelectorFilters selects the status filter bar by class.
	SelectorFilters = "nav." + component.ClassFilters

	// SelectorPagination selects the pagination nav by class.
	SelectorPagination = "nav." + component.ClassPagination

	// SelectorNotice selects informational notices by class.
	SelectorNotice = "." + component.ClassNotice
)

// Field selects the named input, textarea or select inside form.
func Field(form, name string) string {
	return fmt.Sprintf("%s [name=%q]", form, name)
}

// Submit selects the submit button of form.
func Submit(form string) string {
	return form + ` button[type="submit"]`
}

// TodoByID selects the rendered todo with the given ID.
func TodoByID(id string) string {
	return fmt.Sprintf("%s[%s=%q]", SelectorTodoItem, component.DataAttrTodoID, id)
}

// FilterLink selects the status filter link with the given label.
func FilterLink(status string) string {
	return fmt.Sprintf("%s a[href*=%q]", SelectorFilters, "status="+status)
}
