package tableview

import "errors"

var (
	// ErrCacheRead возвращается при ошибке чтения из Redis
	ErrCacheRead = errors.New("tableview.cache: failed to read")

	// ErrCacheWrite возвращается при ошибке записи в Redis
	ErrCacheWrite = errors.New("tableview.cache: failed to write")

	// ErrDecode возвращается, если закешированное значение не удалось разобрать
	ErrDecode = errors.New("tableview.cache: failed to decode entry")
)
