package response

// 业务状态码，HTTP 状态固定为 200，错误类型由 status_code 区分
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// AppError 携带业务状态码的错误
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误，未知状态码按内部错误处理
func WrapError(code int, message string, err error) *AppError {
	if code == CodeOK {
		code = CodeInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}
