package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *PublishError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *PublishError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *PublishError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// State ledger errors

func StateLoadError(path string, cause error) *PublishError {
	return Wrap(cause, CategoryState, SeverityFatal, "failed to load publication state").
		WithContext("path", path)
}

func StateSaveError(path string, cause error) *PublishError {
	return Wrap(cause, CategoryState, SeverityFatal, "failed to persist publication state").
		WithContext("path", path)
}

// Cache isolation errors

func CacheSwapError(operation string, cause error) *PublishError {
	return Wrap(cause, CategoryCache, SeverityFatal, "local repository swap failed").
		WithContext("operation", operation)
}

// Pipeline errors

func WorkspaceError(operation string, cause error) *PublishError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

func MetadataError(cause error) *PublishError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "release metadata normalization failed")
}

func RenderError(cause error) *PublishError {
	return Wrap(cause, CategoryRender, SeverityFatal, "index page rendering failed")
}

// Internal errors

func InternalError(message string, cause error) *PublishError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
