package handler

// WriteServiceError exposes the domain-error mapper to tests.
var WriteServiceError = writeServiceError
