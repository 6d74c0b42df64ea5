package group

import "errors"

var (
	// ErrGroupNotFound возвращается, когда группа столов не найдена или удалена
	ErrGroupNotFound = errors.New("group.repository: group table not found")

	// ErrPossibilityNotFound возвращается, когда комбинация не найдена в группе
	ErrPossibilityNotFound = errors.New("group.repository: possibility not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("group.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("group.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("group.repository: failed to scan row")
)
