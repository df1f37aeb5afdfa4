package errs

import "net/http"

const internalMessage = "internal server error"

// Message returns the text safe to show a client: the detail for known kinds
// and a fixed message for internal failures.
func Message(err error) string {
	if KindOf(err) == KindInternal {
		return internalMessage
	}
	return Detail(err)
}

// StatusCode maps an error's kind to the HTTP status handlers reply with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindEmptyOrder, KindInvalidPrice, KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindIllegalTransition, KindAlreadyCredited:
		return http.StatusConflict
	case KindInsufficientPoints:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
