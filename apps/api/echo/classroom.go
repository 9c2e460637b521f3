package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core/classroom"
)

type classAPI struct {
	svc *classroom.Service
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *classroom.Service) {
	api := classAPI{svc: svc}

	cg := g.Group("/classes", jwt, staffMiddleware)
	cg.GET("", api.list)
	cg.POST("", api.create)
	cg.GET("/:id", api.get)
	cg.DELETE("/:id", api.delete, adminMiddleware)
	cg.POST("/:id/students", api.addStudent)
	cg.POST("/:id/sessions", api.addSession)
	cg.PUT("/:id/records", api.setRecord)
}

var errClassNotFound = echo.NewHTTPError(http.StatusNotFound, "Class not found")

func (api classAPI) list(ctx echo.Context) error {
	classes, err := api.svc.GetAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classes)
}

type createClassRequest struct {
	Name         string              `json:"name"`
	BookName     string              `json:"bookName"`
	AcademicYear string              `json:"academicYear"`
	Type         classroom.ClassType `json:"type"`
}

func (api classAPI) create(ctx echo.Context) error {
	var req createClassRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	c, err := api.svc.Create(ctx.Request().Context(), req.Name, req.BookName, req.AcademicYear, req.Type)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api classAPI) get(ctx echo.Context) error {
	c, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, classroom.ErrNotFound) {
			return errClassNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api classAPI) delete(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Is(err, classroom.ErrNotFound) {
			return errClassNotFound
		}
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type addStudentRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

func (api classAPI) addStudent(ctx echo.Context) error {
	var req addStudentRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	c, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, classroom.ErrNotFound) {
			return errClassNotFound
		}
		return err
	}
	student, err := api.svc.AddStudent(ctx.Request().Context(), &c, req.Name, req.PhoneNumber)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, student)
}

type addSessionRequest struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"dayOfWeek"`
}

func (api classAPI) addSession(ctx echo.Context) error {
	var req addSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	c, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, classroom.ErrNotFound) {
			return errClassNotFound
		}
		return err
	}
	sess, err := api.svc.AddSession(ctx.Request().Context(), &c, req.Date, req.DayOfWeek)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api classAPI) setRecord(ctx echo.Context) error {
	var rec classroom.Record
	if err := ctx.Bind(&rec); err != nil {
		return err
	}
	c, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, classroom.ErrNotFound) {
			return errClassNotFound
		}
		return err
	}
	if err = api.svc.SetRecord(ctx.Request().Context(), &c, rec); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}
