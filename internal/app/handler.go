package app

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/stolasapp/todo/internal/app/component"
	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/todos"
	"github.com/stolasapp/todo/internal/users"
)

type handler struct {
	logger *slog.Logger
	auth   *sec.Authenticator
	users  *users.Service
	todos  *todos.Service
	cookie sec.SessionCookie
}

type routeGuards struct {
	csrf   echo.MiddlewareFunc
	bearer echo.MiddlewareFunc
	cookie echo.MiddlewareFunc
}

func (h handler) register(e *echo.Echo, guards routeGuards) {
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, component.PathTodos)
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.POST("/auth", h.createUser)
	e.POST("/auth/token", h.issueToken)
	e.GET(component.PathLogin, h.loginPage, guards.csrf)
	e.POST(component.PathLogin, h.login, guards.csrf)
	e.GET(component.PathRegister, h.registerPage, guards.csrf)
	e.POST(component.PathRegister, h.registerForm, guards.csrf)
	e.GET(component.PathLogout, h.logout)

	api := e.Group("/todo", guards.bearer)
	api.GET("/read_all", h.readAll)
	api.GET("/get_by_id/:id", h.getByID)
	api.POST("/create", h.createTodo)
	api.PUT("/update_todo/:id", h.updateTodo)
	api.DELETE("/delete_todo/:id", h.deleteTodo)

	pages := e.Group("/todos", guards.cookie, guards.csrf)
	pages.GET("/todo-page", h.todoPage)
	pages.GET("/add-todo-page", h.addTodoPage)
	pages.POST("/add-todo-page", h.addTodo)
	pages.GET("/edit-todo-page/:id", h.editTodoPage)
	pages.POST("/edit-todo-page/:id", h.editTodo)
	pages.POST("/delete/:id", h.deleteTodoPage)
}

func csrfToken(c echo.Context) string {
	tkn, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return tkn
}

func parseID(c echo.Context) (uint64, error) {
	id, ok := todos.ParseID(c.Param("id"))
	if !ok {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid todo id")
	}
	return id, nil
}

// toHTTPError converts an error to an Echo HTTPError with the appropriate
// HTTP status code. ConnectRPC errors are mapped to their corresponding HTTP
// status codes; other errors pass through unchanged.
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}

	// Already an HTTP error - pass through
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	// Map ConnectRPC codes to HTTP status codes
	status := connectCodeToHTTPStatus(connect.CodeOf(err))
	if status != http.StatusInternalServerError {
		msg := err.Error()
		var connectErr *connect.Error
		if errors.As(err, &connectErr) {
			msg = connectErr.Message()
		}
		return echo.NewHTTPError(status, msg)
	}

	// Unknown code or non-Connect error - return as-is for default handling
	return err
}

// connectCodeToHTTPStatus maps ConnectRPC error codes to HTTP status codes.
// See: https://connectrpc.com/docs/protocol/#error-codes
func connectCodeToHTTPStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeFailedPrecondition, connect.CodeOutOfRange:
		return http.StatusBadRequest // 400
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized // 401
	case connect.CodePermissionDenied:
		return http.StatusForbidden // 403
	case connect.CodeNotFound:
		return http.StatusNotFound // 404
	case connect.CodeCanceled:
		return http.StatusRequestTimeout // 408
	case connect.CodeAlreadyExists, connect.CodeAborted:
		return http.StatusConflict // 409
	case connect.CodeResourceExhausted:
		return http.StatusTooManyRequests // 429
	case connect.CodeUnimplemented:
		return http.StatusNotImplemented // 501
	case connect.CodeUnavailable:
		return http.StatusServiceUnavailable // 503
	case connect.CodeDeadlineExceeded:
		return http.StatusGatewayTimeout // 504
	default:
		return http.StatusInternalServerError // 500
	}
}

var renderBufferPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

func render(c echo.Context, status int, component templ.Component) error {
	buf := renderBufferPool.Get().(*bytes.Buffer) //nolint:forcetypeassert // guaranteed by impl
	defer renderBufferPool.Put(buf)
	buf.Reset()

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return toHTTPError(err)
	}
	return c.HTMLBlob(status, buf.Bytes())
}
