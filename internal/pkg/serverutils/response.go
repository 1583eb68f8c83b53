package serverutils

type BaseResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type DataResponse[T any] struct {
	BaseResponse
	Data T `json:"data"`
}

func SuccessResponse[T any](message string, data T) DataResponse[T] {
	return DataResponse[T]{
		BaseResponse: BaseResponse{Success: true, Code: 200, Message: message},
		Data:         data,
	}
}

func ErrorResponse(code int, message string) BaseResponse {
	return BaseResponse{Success: false, Code: code, Message: message}
}
