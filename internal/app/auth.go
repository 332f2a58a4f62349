package app

import (
	"errors"
	"net/http"
	"strconv"

	"connectrpc.com/connect"
	"github.com/labstack/echo/v4"

	"github.com/stolasapp/todo/internal/app/component"
	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/users"
	"github.com/stolasapp/todo/internal/validation"
)

const (
	msgBadCredentials = "Incorrect username or password"
	msgRegistered     = "Account created, please log in."
)

type createUserResponse struct {
	ID string `json:"id"`
}

func (h handler) createUser(c echo.Context) error {
	var req users.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	user, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, createUserResponse{
		ID: strconv.FormatUint(user.ID, 10),
	})
}

func (h handler) issueToken(c echo.Context) error {
	token, err := h.auth.IssueToken(
		c.Request().Context(),
		c.FormValue(component.FieldUsername),
		c.FormValue(component.FieldPassword),
	)
	switch {
	case errors.Is(err, sec.ErrAuthenticationFailed):
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, token)
}

func (h handler) loginPage(c echo.Context) error {
	props := component.LoginProps{CSRF: csrfToken(c)}
	if c.QueryParam("registered") != "" {
		props.Notice = msgRegistered
	}
	return render(c, http.StatusOK, component.LoginPage(props))
}

func (h handler) login(c echo.Context) error {
	username := c.FormValue(component.FieldUsername)
	token, err := h.auth.IssueToken(
		c.Request().Context(),
		username,
		c.FormValue(component.FieldPassword),
	)
	switch {
	case errors.Is(err, sec.ErrAuthenticationFailed):
		return render(c, http.StatusUnauthorized, component.LoginPage(component.LoginProps{
			CSRF:     csrfToken(c),
			Username: username,
			Errors:   []string{msgBadCredentials},
		}))
	case err != nil:
		return err
	}
	h.cookie.Write(c.Response(), c.Request(), token.AccessToken, token.ExpiresAt)
	return c.Redirect(http.StatusSeeOther, component.PathTodos)
}

func (h handler) registerPage(c echo.Context) error {
	return render(c, http.StatusOK, component.RegisterPage(component.RegisterProps{
		CSRF: csrfToken(c),
	}))
}

func (h handler) registerForm(c echo.Context) error {
	var req users.RegisterRequest
	bindErr := c.Bind(&req)
	if bindErr == nil {
		_, bindErr = h.users.Register(c.Request().Context(), req)
	}
	if bindErr == nil {
		return c.Redirect(http.StatusSeeOther, component.PathLogin+"?registered=1")
	}

	status, msgs := formError(bindErr)
	if status == http.StatusInternalServerError {
		return toHTTPError(bindErr)
	}
	return render(c, status, component.RegisterPage(component.RegisterProps{
		CSRF:        csrfToken(c),
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
		Errors:      msgs,
	}))
}

func (h handler) logout(c echo.Context) error {
	h.cookie.Clear(c.Response(), c.Request())
	return c.Redirect(http.StatusSeeOther, component.PathLogin)
}

// formError returns the status and messages to re-render a form with.
func formError(err error) (int, []string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, []string{"The form could not be read."}
	}
	if msgs := validation.Messages(err); len(msgs) > 0 {
		return http.StatusBadRequest, msgs
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectCodeToHTTPStatus(connectErr.Code()), []string{connectErr.Message()}
	}
	return http.StatusInternalServerError, nil
}
