// Package component provides the page templates used by the todo web app.
//
// Templates live in the .templ files; the _templ.go files are generated from
// them with `templ generate`.
package component

import (
	"strconv"

	"github.com/stolasapp/todo/internal/todos"
)

// Site paths referenced by the templates.
const (
	PathLogin    = "/auth/login-page"
	PathRegister = "/auth/register-page"
	PathLogout   = "/auth/logout"
	PathTodos    = "/todos/todo-page"
	PathAddTodo  = "/todos/add-todo-page"
	PathEditTodo = "/todos/edit-todo-page/"
	PathDelete   = "/todos/delete/"
)

// LayoutProps configures the page shell.
type LayoutProps struct {
	Title string
	// Username is shown in the header with a logout link when set.
	Username string
}

// LoginProps are the inputs to [LoginPage].
type LoginProps struct {
	CSRF     string
	Username string
	Errors   []string
	// Notice is an informational message, such as a successful registration.
	Notice string
}

// RegisterProps are the inputs to [RegisterPage]. Values re-fill the form
// after a failed attempt; the password is never echoed.
type RegisterProps struct {
	CSRF        string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Role        string
	PhoneNumber string
	Errors      []string
}

// TodoItem is a todo prepared for display.
type TodoItem struct {
	todos.Todo
	// DescriptionHTML is the sanitized rendering of the description.
	DescriptionHTML string
}

// ListProps are the inputs to [TodoListPage].
type ListProps struct {
	Username      string
	CSRF          string
	Params        ListParams
	NextPageToken string
}

// FormProps are the inputs to [TodoFormPage].
type FormProps struct {
	Username string
	CSRF     string
	// ID is set when editing an existing todo.
	ID     string
	Input  todos.Input
	Errors []string
}

func (p FormProps) title() string {
	if p.ID != "" {
		return "Edit todo"
	}
	return "Add todo"
}

func (p FormProps) action() string {
	if p.ID != "" {
		return PathEditTodo + p.ID
	}
	return PathAddTodo
}

var priorities = []int64{1, 2, 3, 4, 5}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}

func statusCurrent(params ListParams, status string) bool {
	return params.Status == status || (params.Status == "" && status == StatusAll)
}

var statuses = []string{StatusAll, StatusOpen, StatusDone}

var inputMaxLengths = map[string]string{
	FieldUsername:    "64",
	FieldEmail:       "254",
	FieldFirstName:   "50",
	FieldLastName:    "50",
	FieldRole:        "32",
	FieldPhoneNumber: "15",
}

func inputMaxLength(name string) string {
	return inputMaxLengths[name]
}

// inputRequired reports whether the registration field must be filled in.
func inputRequired(name string) bool {
	return name != FieldRole && name != FieldPhoneNumber
}
