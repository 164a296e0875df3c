// Package logger provides structured logging built on zerolog.
//
// Components obtain a tagged logger with Get or WithComponent and log with
// field maps built by Fields:
//
//	log := logger.Get("jobs")
//	log.Info("job submitted", logger.Fields(logger.FieldJobName, name))
//
// Request, user and job identifiers stored with ContextWithRequestID,
// ContextWithUserID and ContextWithJobName are attached by WithContext.
package logger
