package audit

import "errors"

var (
	// ErrMarshalChange возвращается, если изменения не удалось сериализовать в JSON
	ErrMarshalChange = errors.New("audit.repository: failed to marshal content change")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("audit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("audit.repository: failed to execute query")
)
