package field

import "errors"

var (
	// ErrFieldNotFound возвращается, когда поле не найдено
	ErrFieldNotFound = errors.New("field.repository: field not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("field.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("field.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("field.repository: failed to scan row")
)
