package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/reportcard"
)

type reportCardApi struct {
	svc   *reportcard.Service
	notif *notifier
}

func registerReportCardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *reportcard.Service, notif *notifier) {
	api := reportCardApi{svc: svc, notif: notif}

	rg := g.Group("/report-cards", jwt)
	rg.POST("", api.create, staffMiddleware())
	rg.POST("/class/:classID/publish", api.publishClass, adminMiddleware())
	rg.GET("/student/:studentID", api.queryByStudent)
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update, staffMiddleware())
	rg.DELETE("/:id", api.destroy, adminMiddleware())
	rg.POST("/:id/calculate", api.calculateMetrics, staffMiddleware())
	rg.POST("/:id/publish", api.publish, staffMiddleware())
	rg.POST("/:id/republish", api.republish, adminMiddleware())
}

func (api *reportCardApi) create(ctx echo.Context) error {
	var data reportcard.NewReportCard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReportCard")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rc, err := api.svc.Create(data, contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "opening report card")
	}
	return ctx.JSON(http.StatusCreated, rc)
}

func (api *reportCardApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	rc, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "finding report card by ID")
	}
	return ctx.JSON(http.StatusOK, rc)
}

func (api *reportCardApi) queryByStudent(ctx echo.Context) error {
	studentID, err := intParam(ctx, "studentID")
	if err != nil {
		return err
	}
	cards, err := api.svc.QueryByStudent(studentID)
	if err != nil {
		return errors.Wrap(err, "querying student report cards")
	}

	// students and parents only ever see published cards
	if claims, err := getContextClaims(ctx); err == nil {
		if !(claims.IsAdmin || claims.IsTeacher) {
			published := make([]reportcard.ReportCard, 0, len(cards))
			for _, rc := range cards {
				if rc.IsPublished {
					published = append(published, rc)
				}
			}
			cards = published
		}
	}

	if cards == nil {
		cards = []reportcard.ReportCard{}
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *reportCardApi) calculateMetrics(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	rc, err := api.svc.CalculateMetrics(id)
	if err != nil {
		return errors.Wrap(err, "calculating report card metrics")
	}
	return ctx.JSON(http.StatusOK, rc)
}

func (api *reportCardApi) publish(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	rc, err := api.svc.Publish(id)
	if err != nil {
		return errors.Wrap(err, "publishing report card")
	}
	api.notif.reportCardPublished(rc)
	return ctx.JSON(http.StatusOK, rc)
}

func (api *reportCardApi) republish(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	rc, err := api.svc.Republish(id)
	if err != nil {
		return errors.Wrap(err, "republishing report card")
	}
	return ctx.JSON(http.StatusOK, rc)
}

func (api *reportCardApi) publishClass(ctx echo.Context) error {
	classID, err := intParam(ctx, "classID")
	if err != nil {
		return err
	}

	academicYear := ctx.QueryParam("academic_year")
	if academicYear == "" {
		academicYear = core.CurrentAcademicYear()
	}
	semester := ctx.QueryParam("semester")
	if semester == "" {
		semester = "full_year"
	}

	cards, err := api.svc.PublishClass(classID, academicYear, semester)
	if err != nil {
		return errors.Wrap(err, "publishing class report cards")
	}
	for _, rc := range cards {
		api.notif.reportCardPublished(rc)
	}
	if cards == nil {
		cards = []reportcard.ReportCard{}
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *reportCardApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data reportcard.UpdateReportCard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateReportCard")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rc, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating report card")
	}
	return ctx.JSON(http.StatusOK, rc)
}

func (api *reportCardApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting report card")
	}
	return ctx.NoContent(http.StatusNoContent)
}
