package jobx

import (
	"net/http"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("JOBX")

var (
	CodeInvalidJob     = ErrRegistry.Register("INVALID_JOB", errx.TypeValidation, http.StatusBadRequest, "Invalid job definition")
	CodeInvalidPayload = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeInternal, http.StatusInternalServerError, "Job payload could not be decoded")
	CodeAlreadyRunning = ErrRegistry.Register("ALREADY_RUNNING", errx.TypeConflict, http.StatusConflict, "Worker is already running")
)
