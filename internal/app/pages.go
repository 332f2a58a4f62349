package app

import (
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/stolasapp/todo/internal/app/component"
	"github.com/stolasapp/todo/internal/content"
	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/todos"
)

const pageSize = 25

func username(c echo.Context) string {
	id, _ := sec.GetIdentity(c.Request().Context())
	return id.Username
}

// pageError renders err as an error page, or hands it to echo if it is not a
// client error.
func (h handler) pageError(c echo.Context, err error) error {
	status := connectCodeToHTTPStatus(connect.CodeOf(err))
	msg := http.StatusText(status)
	var connectErr *connect.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		msg = http.StatusText(status)
	case status == http.StatusUnauthorized:
		h.cookie.Clear(c.Response(), c.Request())
		return c.Redirect(http.StatusSeeOther, component.PathLogin)
	case status == http.StatusInternalServerError:
		return toHTTPError(err)
	case errors.As(err, &connectErr):
		msg = connectErr.Message()
	}
	return render(c, status, component.ErrorPage(status, msg))
}

func (h handler) todoPage(c echo.Context) error {
	ctx := c.Request().Context()
	params := component.ParseQueryString(c.QueryString())
	res, err := h.todos.List(ctx, todos.ListRequest{
		Filter:      params.Filter(),
		MaxPageSize: pageSize,
		PageToken:   params.Page,
	})
	if err != nil {
		return h.pageError(c, err)
	}

	items := make([]component.TodoItem, len(res.Results))
	for i, todo := range res.Results {
		items[i] = component.TodoItem{
			Todo:            todo,
			DescriptionHTML: h.describe(c, todo),
		}
	}
	return render(c, http.StatusOK, component.TodoListPage(items, component.ListProps{
		Username:      username(c),
		CSRF:          csrfToken(c),
		Params:        params,
		NextPageToken: res.NextPageToken,
	}))
}

// describe renders the todo's description, falling back to escaped text.
func (h handler) describe(c echo.Context, todo todos.Todo) string {
	html, err := content.RenderDescription(todo.Description)
	if err != nil {
		h.logger.WarnContext(c.Request().Context(), "failed to render todo description",
			slog.String("todo", todo.ID),
			slog.Any("error", err),
		)
		return templ.EscapeString(todo.Description)
	}
	return string(html)
}

func (h handler) addTodoPage(c echo.Context) error {
	return render(c, http.StatusOK, component.TodoFormPage(component.FormProps{
		Username: username(c),
		CSRF:     csrfToken(c),
		Input:    todos.Input{Priority: 1},
	}))
}

func (h handler) addTodo(c echo.Context) error {
	var in todos.Input
	err := c.Bind(&in)
	if err == nil {
		_, err = h.todos.Create(c.Request().Context(), in)
	}
	if err == nil {
		return c.Redirect(http.StatusSeeOther, component.PathTodos)
	}
	return h.formPageError(c, "", in, err)
}

func (h handler) editTodoPage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.pageError(c, err)
	}
	todo, err := h.todos.Get(c.Request().Context(), id)
	if err != nil {
		return h.pageError(c, err)
	}
	return render(c, http.StatusOK, component.TodoFormPage(component.FormProps{
		Username: username(c),
		CSRF:     csrfToken(c),
		ID:       todo.ID,
		Input:    todos.InputOf(todo),
	}))
}

func (h handler) editTodo(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.pageError(c, err)
	}
	var in todos.Input
	err = c.Bind(&in)
	if err == nil {
		_, err = h.todos.Update(c.Request().Context(), id, in)
	}
	if err == nil {
		return c.Redirect(http.StatusSeeOther, component.PathTodos)
	}
	if connect.CodeOf(err) == connect.CodeNotFound {
		return h.pageError(c, err)
	}
	return h.formPageError(c, c.Param("id"), in, err)
}

func (h handler) deleteTodoPage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.pageError(c, err)
	}
	if err = h.todos.Delete(c.Request().Context(), id); err != nil {
		return h.pageError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, component.PathTodos)
}

// formPageError re-renders the todo form with the failure, unless the failure
// is not the client's.
func (h handler) formPageError(c echo.Context, id string, in todos.Input, err error) error {
	status, msgs := formError(err)
	if status == http.StatusInternalServerError || status == http.StatusUnauthorized {
		return h.pageError(c, err)
	}
	return render(c, status, component.TodoFormPage(component.FormProps{
		Username: username(c),
		CSRF:     csrfToken(c),
		ID:       id,
		Input:    in,
		Errors:   msgs,
	}))
}
