package handler

import (
	"errors"
	"net/http"
	"reflect"

	"syapos/internal/apierror"
	"syapos/internal/dto"
	"syapos/internal/model"
	"syapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		// A payload without its idempotency key is malformed, not merely
		// unprocessable: the device has to regenerate the record.
		if tag, ok := fields["GlobalID"]; ok && tag == "required" {
			c.JSON(http.StatusBadRequest, apierror.New("global_id requerido"))
			return false
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps the service sentinel errors onto HTTP statuses.
// Unresolved references answer 400 so the device parks the record and
// retries after its dependencies sync; conflicts answer 409 so it
// reconciles instead of retrying blindly.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUnresolvedReference):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrShiftConflict),
		errors.Is(err, service.ErrShiftClosed),
		errors.Is(err, service.ErrTerminalState),
		errors.Is(err, service.ErrAlreadyLiquidated):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
	}
}

// syncEnvelope answers a single-record sync: 201 on first insert, 200 on a
// replay, same body shape either way.
func syncEnvelope(c *gin.Context, inserted bool, data any) {
	status := http.StatusOK
	msg := "registro ya sincronizado"
	if inserted {
		status = http.StatusCreated
		msg = "registro sincronizado"
	}
	c.JSON(status, dto.SyncEnvelope{Success: true, Message: msg, Data: data})
}

// syncBatchEnvelope answers a batch sync. The HTTP status is 200 even with
// per-item failures; devices read the per-record results.
func syncBatchEnvelope(c *gin.Context, results []dto.SyncResult) {
	ok := true
	for _, r := range results {
		if !r.Success {
			ok = false
			break
		}
	}
	c.JSON(http.StatusOK, dto.SyncBatchEnvelope{
		Success: ok,
		Message: "lote procesado",
		Results: results,
	})
}

func shiftResponse(sh *model.Shift) dto.ShiftResponse {
	resp := dto.ShiftResponse{
		ID:                 sh.ID,
		GlobalID:           sh.GlobalID.String(),
		EmployeeID:         sh.EmployeeID,
		BranchID:           sh.BranchID,
		LocalShiftID:       sh.LocalShiftID,
		StartTime:          sh.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		InitialAmount:      sh.InitialAmount,
		FinalAmount:        sh.FinalAmount,
		IsOpen:             sh.IsOpen,
		AutoClosed:         sh.AutoClosed,
		TransactionCounter: sh.TransactionCounter,
	}
	if sh.EndTime != nil {
		t := sh.EndTime.Format("2006-01-02T15:04:05Z07:00")
		resp.EndTime = &t
	}
	return resp
}

func snapshotResponse(s *model.CashSnapshot) dto.CashSnapshotResponse {
	return dto.CashSnapshotResponse{
		ShiftID:                 s.ShiftID,
		InitialAmount:           s.InitialAmount,
		CashSales:               s.CashSales,
		CardSales:               s.CardSales,
		CreditSales:             s.CreditSales,
		CashPayments:            s.CashPayments,
		Expenses:                s.Expenses,
		Deposits:                s.Deposits,
		Withdrawals:             s.Withdrawals,
		AssignedTotal:           s.AssignedTotal,
		ReturnedTotal:           s.ReturnedTotal,
		NetAmountToDeliver:      s.NetAmountToDeliver,
		DeliveryLiquidationCash: s.DeliveryLiquidationCash,
		DeliveryWorkerExpenses:  s.DeliveryWorkerExpenses,
		ExpectedCash:            s.ExpectedCash,
		ActualCashDelivered:     s.ActualCashDelivered,
		CashDifference:          s.CashDifference,
		Frozen:                  s.Frozen,
		LastUpdatedAt:           s.LastUpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
