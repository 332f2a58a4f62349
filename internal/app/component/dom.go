package component

// Element IDs.
const (
	IDTodoList   = "todo-list"
	IDFormErrors = "form-errors"
	IDLoginForm  = "login-form"
	IDTodoForm   = "todo-form"
)

// Data attribute names with prefix (for use in CSS selectors and tests).
const (
	DataAttrTodoID   = "data-todo-id"
	DataAttrComplete = "data-complete"
	DataAttrPriority = "data-priority"
)

// CSS class names, as written in the templates.
const (
	ClassSiteHeader  = "site-header"
	ClassSiteTitle   = "site-title"
	ClassFilters     = "filters"
	ClassPagination  = "pagination"
	ClassDescription = "description"
	ClassNotice      = "notice"
)

// Form field names shared by handlers and templates.
const (
	FieldCSRF        = "_csrf"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldEmail       = "email"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldRole        = "role"
	FieldPhoneNumber = "phone_number"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldComplete    = "complete"
)
