package service

import "errors"

// --- Error Definitions ---
var (
	ErrUserNotFound          = errors.New("user profile not found")
	ErrProfileExists         = errors.New("user profile already exists")
	ErrInvalidActivityLevel  = errors.New("unknown activity level")
	ErrValidationFailed      = errors.New("validation failed")
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrScheduleConflict      = errors.New("schedule was changed by a concurrent request")
	ErrOnboardingIncomplete  = errors.New("onboarding draft is missing required fields")
	ErrExportFailed          = errors.New("failed to export schedule")
	ErrExportStorageDisabled = errors.New("schedule export storage is not configured")
)
