// Package validation turns invalid input into INVALID_INPUT AppErrors.
//
// Struct tag validation (go-playground/validator) guards request types:
//
//	type UploadRequest struct {
//	    Audio  []byte `json:"audio" validate:"required,min=1"`
//	    UserID string `json:"userId" validate:"required"`
//	    Format string `json:"format" validate:"omitempty,audio_format"`
//	}
//	err := validation.Validate(req)
//
// The programmatic Validator collects errors for configuration checks:
//
//	v := validation.New()
//	v.Required("api.base_url", cfg.BaseURL).Min("polling.max_attempts", cfg.MaxAttempts, 1)
//	return v.Err()
package validation
