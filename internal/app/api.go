package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stolasapp/todo/internal/todos"
)

func (h handler) readAll(c echo.Context) error {
	var req todos.ListRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	res, err := h.todos.List(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h handler) getByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	todo, err := h.todos.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, todo)
}

func (h handler) createTodo(c echo.Context) error {
	var in todos.Input
	if err := c.Bind(&in); err != nil {
		return err
	}
	todo, err := h.todos.Create(c.Request().Context(), in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, todo)
}

func (h handler) updateTodo(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in todos.Input
	if err = c.Bind(&in); err != nil {
		return err
	}
	if _, err = h.todos.Update(c.Request().Context(), id, in); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h handler) deleteTodo(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err = h.todos.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
