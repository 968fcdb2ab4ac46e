package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *SiteError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func DiscoveryFailed(root string, cause error) *SiteError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "document discovery failed").
		WithContext("root", root)
}

func RenderFailed(document string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "document render failed").
		WithContext("document", document)
}

func TemplateFailed(name string, cause error) *SiteError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template execution failed").
		WithContext("template", name)
}

func FileSystemError(operation, path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// External systems

func GitError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryGit, SeverityWarning, "git repository inspection failed").
		WithContext("path", path)
}

func NotifyFailed(url string, cause error) *SiteError {
	return WrapRetryable(cause, CategoryNetwork, SeverityWarning, "build notification failed").
		WithContext("url", url)
}

func StoreFailed(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryStore, SeverityError, "build history operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
