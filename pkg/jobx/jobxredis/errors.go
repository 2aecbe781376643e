package jobxredis

import (
	"net/http"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("JOBX_REDIS")

var (
	CodeCommand  = ErrRegistry.Register("COMMAND", errx.TypeExternal, http.StatusBadGateway, "Redis job queue command failed")
	CodeNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found")
	CodeCodec    = ErrRegistry.Register("CODEC", errx.TypeInternal, http.StatusInternalServerError, "Job data could not be encoded or decoded")
)
