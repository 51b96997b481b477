package engine

// ErrInvalidDocument indicates a snapshot whose records do not fit together
type ErrInvalidDocument struct {
	Reason string
}

func (e ErrInvalidDocument) Error() string {
	return "invalid snapshot document: " + e.Reason
}

// Is implements the errors.Is interface for ErrInvalidDocument
func (e ErrInvalidDocument) Is(target error) bool {
	_, ok := target.(ErrInvalidDocument)
	return ok
}
