package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/grade"
)

type gradeApi struct {
	svc *grade.Service
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *grade.Service) {
	api := gradeApi{svc: svc}

	gg := g.Group("/grades", jwt)
	gg.POST("", api.create, staffMiddleware())
	gg.GET("/student/:studentID", api.queryByStudent)
	gg.GET("/subject/:subjectID", api.queryBySubject, staffMiddleware())
	gg.GET("/:id", api.retrieve)
	gg.PUT("/:id", api.update, staffMiddleware())
	gg.DELETE("/:id", api.destroy, staffMiddleware())
	gg.POST("/:id/publish", api.publish, staffMiddleware())
}

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	g, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "recording grade")
	}
	return ctx.JSON(http.StatusCreated, g)
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	g, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "finding grade by ID")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) queryByStudent(ctx echo.Context) error {
	studentID, err := intParam(ctx, "studentID")
	if err != nil {
		return err
	}

	// students and parents only ever see published grades
	publishedOnly := boolQuery(ctx, "published")
	if claims, err := getContextClaims(ctx); err == nil {
		if !(claims.IsAdmin || claims.IsTeacher) {
			publishedOnly = true
		}
	}

	grades, err := api.svc.QueryByStudent(studentID, publishedOnly, ctx.QueryParam("academic_year"))
	if err != nil {
		return errors.Wrap(err, "querying student grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) queryBySubject(ctx echo.Context) error {
	subjectID, err := intParam(ctx, "subjectID")
	if err != nil {
		return err
	}
	grades, err := api.svc.QueryBySubject(subjectID)
	if err != nil {
		return errors.Wrap(err, "querying subject grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data grade.UpdateGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	g, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) publish(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	g, err := api.svc.Publish(id)
	if err != nil {
		return errors.Wrap(err, "publishing grade")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}
