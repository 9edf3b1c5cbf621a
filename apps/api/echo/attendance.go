package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark, staffMiddleware())
	ag.GET("/student/:studentID", api.queryByStudent)
	ag.GET("/student/:studentID/summary", api.studentSummary)
	ag.GET("/class/:classID/daily", api.classDaily, staffMiddleware())
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, staffMiddleware())
	ag.DELETE("/:id", api.destroy, staffMiddleware())
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	r, err := api.svc.Mark(data, contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	r, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "finding attendance record by ID")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *attendanceApi) queryByStudent(ctx echo.Context) error {
	studentID, err := intParam(ctx, "studentID")
	if err != nil {
		return err
	}
	var rng DateRange
	if err := rng.Bind(ctx); err != nil {
		return err
	}

	records, err := api.svc.QueryByStudent(studentID, rng.From, rng.To)
	if err != nil {
		return errors.Wrap(err, "querying student attendance")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) studentSummary(ctx echo.Context) error {
	studentID, err := intParam(ctx, "studentID")
	if err != nil {
		return err
	}
	var rng DateRange
	if err := rng.Bind(ctx); err != nil {
		return err
	}

	sum, err := api.svc.StudentSummary(studentID, rng.From, rng.To)
	if err != nil {
		return errors.Wrap(err, "summarizing student attendance")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *attendanceApi) classDaily(ctx echo.Context) error {
	classID, err := intParam(ctx, "classID")
	if err != nil {
		return err
	}
	date, err := dateQuery(ctx)
	if err != nil {
		return err
	}

	sum, err := api.svc.ClassDaily(classID, date)
	if err != nil {
		return errors.Wrap(err, "summarizing class attendance")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data attendance.UpdateRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	r, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating attendance record")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	return ctx.NoContent(http.StatusNoContent)
}
