package component

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/todo/internal/todos"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, c.Render(t.Context(), buf))
	doc, err := goquery.NewDocumentFromReader(buf)
	require.NoError(t, err)
	return doc
}

func TestLoginPage(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, LoginPage(LoginProps{
		CSRF:     "tkn",
		Username: `<b>bob</b>`,
		Errors:   []string{"Incorrect username or password"},
	}))

	form := doc.Find("#" + IDLoginForm)
	require.Equal(t, 1, form.Length())
	action, _ := form.Attr("action")
	assert.Equal(t, PathLogin, action)

	csrf, _ := form.Find(`input[name="` + FieldCSRF + `"]`).Attr("value")
	assert.Equal(t, "tkn", csrf)

	username, _ := form.Find(`input[name="` + FieldUsername + `"]`).Attr("value")
	assert.Equal(t, `<b>bob</b>`, username)
	assert.Equal(t, 0, doc.Find("main b").Length(), "user input is escaped")

	assert.Equal(t, "Incorrect username or password", doc.Find("#"+IDFormErrors+" li").Text())
	assert.Equal(t, 0, doc.Find("nav").Length(), "no logout link when anonymous")
}

func TestRegisterPage(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, RegisterPage(RegisterProps{CSRF: "tkn", Username: "bob"}))
	for _, field := range []string{
		FieldUsername, FieldEmail, FieldFirstName, FieldLastName,
		FieldPassword, FieldRole, FieldPhoneNumber, FieldCSRF,
	} {
		assert.Equal(t, 1, doc.Find(`input[name="`+field+`"]`).Length(), field)
	}
	_, hasValue := doc.Find(`input[name="` + FieldPassword + `"]`).Attr("value")
	assert.False(t, hasValue)

	username := doc.Find(`input[name="` + FieldUsername + `"]`)
	value, _ := username.Attr("value")
	assert.Equal(t, "bob", value)
	_, required := username.Attr("required")
	assert.True(t, required)
	maxLength, _ := username.Attr("maxlength")
	assert.Equal(t, "64", maxLength)

	_, required = doc.Find(`input[name="` + FieldRole + `"]`).Attr("required")
	assert.False(t, required)
	kind, _ := doc.Find(`input[name="` + FieldPhoneNumber + `"]`).Attr("type")
	assert.Equal(t, "tel", kind)
}

func TestTodoListPage(t *testing.T) {
	t.Parallel()

	items := []TodoItem{
		{
			Todo:            todos.Todo{ID: "1", Title: "milk", Priority: 2},
			DescriptionHTML: "<p><strong>oat</strong></p>",
		},
		{
			Todo:            todos.Todo{ID: "2", Title: "eggs", Priority: 5, Complete: true},
			DescriptionHTML: "<p>dozen</p>",
		},
	}
	doc := renderDoc(t, TodoListPage(items, ListProps{
		Username:      "bob",
		CSRF:          "tkn",
		Params:        ListParams{Status: StatusOpen},
		NextPageToken: "next",
	}))

	list := doc.Find("#" + IDTodoList + " li")
	require.Equal(t, 2, list.Length())

	first := list.First()
	id, _ := first.Attr(DataAttrTodoID)
	assert.Equal(t, "1", id)
	assert.Equal(t, "oat", first.Find("."+ClassDescription+" strong").Text())
	action, _ := first.Find("form").Attr("action")
	assert.Equal(t, PathDelete+"1", action)

	last := list.Last()
	complete, _ := last.Attr(DataAttrComplete)
	assert.Equal(t, "true", complete)
	assert.Equal(t, "eggs", last.Find("h2 s").Text())

	current, _ := doc.Find("." + ClassFilters + ` a[aria-current="page"]`).Attr("href")
	assert.Equal(t, PathTodos+"?status=open", current)

	next, _ := doc.Find("." + ClassPagination + " a").Attr("href")
	assert.Equal(t, PathTodos+"?page=next&status=open", next)

	assert.Contains(t, doc.Find("header nav").Text(), "bob")
}

func TestTodoFormPage(t *testing.T) {
	t.Parallel()

	t.Run("add", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, TodoFormPage(FormProps{CSRF: "tkn"}))
		action, _ := doc.Find("#" + IDTodoForm).Attr("action")
		assert.Equal(t, PathAddTodo, action)
		assert.Equal(t, "Add todo", doc.Find("h1").Text())
	})

	t.Run("edit", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, TodoFormPage(FormProps{
			CSRF: "tkn",
			ID:   "42",
			Input: todos.Input{
				Title:       "milk",
				Description: "<script>x</script>",
				Priority:    4,
				Complete:    true,
			},
			Errors: []string{"title must be at least 3 characters"},
		}))
		form := doc.Find("#" + IDTodoForm)
		action, _ := form.Attr("action")
		assert.Equal(t, PathEditTodo+"42", action)
		title, _ := form.Find(`input[name="` + FieldTitle + `"]`).Attr("value")
		assert.Equal(t, "milk", title)
		assert.Equal(t, "<script>x</script>", form.Find("textarea").Text())
		assert.Equal(t, 0, doc.Find("script").Length())
		selected, _ := form.Find("option[selected]").Attr("value")
		assert.Equal(t, "4", selected)
		_, checked := form.Find(`input[name="` + FieldComplete + `"]`).Attr("checked")
		assert.True(t, checked)
		assert.Equal(t, 1, doc.Find("#"+IDFormErrors+" li").Length())
	})
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, ErrorPage(404, "todo not found"))
	assert.Equal(t, "Error 404", doc.Find("h1").Text())
	assert.Equal(t, "todo not found", doc.Find(`main p[role="alert"]`).Text())
}
