package audit

import "errors"

var (
	// ErrSnapshot возвращается, если снимок сущности не удалось привести к набору полей
	ErrSnapshot = errors.New("audit.service: failed to build snapshot")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("audit.service: internal error")
)
