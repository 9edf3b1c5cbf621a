package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/fee"
)

type feeApi struct {
	svc   *fee.Service
	notif *notifier
}

func registerFeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *fee.Service, notif *notifier) {
	api := feeApi{svc: svc, notif: notif}

	fg := g.Group("/fees", jwt)
	fg.POST("", api.create, adminMiddleware())
	fg.POST("/bulk", api.bulkAssess, adminMiddleware())
	fg.GET("/overdue", api.queryOverdue, adminMiddleware())
	fg.POST("/refresh-overdue", api.refreshOverdue, adminMiddleware())
	fg.GET("/student/:studentID", api.queryByStudent)
	fg.GET("/student/:studentID/summary", api.studentSummary)
	fg.GET("/:id", api.retrieve)
	fg.PUT("/:id", api.update, adminMiddleware())
	fg.DELETE("/:id", api.destroy, adminMiddleware())
	fg.POST("/:id/payments", api.applyPayment, adminMiddleware())
}

func (api *feeApi) create(ctx echo.Context) error {
	var data fee.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	f, err := api.svc.Create(data, contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "assessing fee")
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *feeApi) bulkAssess(ctx echo.Context) error {
	var data BulkAssessRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkAssessRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	fees, err := api.svc.BulkAssess(data.NewFee, data.StudentIDs, contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "bulk assessing fees")
	}
	return ctx.JSON(http.StatusCreated, fees)
}

func (api *feeApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	f, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "finding fee by ID")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) queryByStudent(ctx echo.Context) error {
	studentID, err := intParam(ctx, "studentID")
	if err != nil {
		return err
	}
	fees, err := api.svc.QueryByStudent(studentID, ctx.QueryParam("academic_year"))
	if err != nil {
		return errors.Wrap(err, "querying student fees")
	}
	if fees == nil {
		fees = []fee.Fee{}
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *feeApi) studentSummary(ctx echo.Context) error {
	studentID, err := intParam(ctx, "studentID")
	if err != nil {
		return err
	}
	sum, err := api.svc.StudentSummary(studentID, ctx.QueryParam("academic_year"))
	if err != nil {
		return errors.Wrap(err, "summarizing student fees")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *feeApi) queryOverdue(ctx echo.Context) error {
	fees, err := api.svc.QueryOverdue()
	if err != nil {
		return errors.Wrap(err, "querying overdue fees")
	}
	if fees == nil {
		fees = []fee.Fee{}
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *feeApi) refreshOverdue(ctx echo.Context) error {
	changed, err := api.svc.RefreshOverdue()
	if err != nil {
		return errors.Wrap(err, "refreshing overdue fees")
	}
	return ctx.JSON(http.StatusOK, RefreshOverdueResponse{Changed: changed})
}

func (api *feeApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data fee.UpdateFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFee")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	f, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating fee")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) applyPayment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data fee.Payment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Payment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	f, err := api.svc.ApplyPayment(id, data, contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "applying payment")
	}
	api.notif.paymentReceived(f, data)
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting fee")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	BulkAssessRequest struct {
		fee.NewFee
		StudentIDs []int `json:"student_ids"`
	}

	RefreshOverdueResponse struct {
		Changed int `json:"changed"`
	}
)

func (r *BulkAssessRequest) Validate() error {
	if len(r.StudentIDs) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "student_ids", Error: "this field is required"})
	}
	// satisfies the per-fee validation; overridden per student on assessment
	r.StudentID = r.StudentIDs[0]
	return r.NewFee.Validate()
}
