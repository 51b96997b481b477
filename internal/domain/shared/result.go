package shared

// Result reports the outcome of a bulk operation that must never fail loudly
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

func Failed(message string) Result {
	return Result{Success: false, Message: message}
}
