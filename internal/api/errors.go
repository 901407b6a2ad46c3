// ABOUTME: Error matching helpers for transport and backend failures
// ABOUTME: Unwraps url.Error chains produced by net/http

package api

import "errors"

func asAPIError(err error, target **apiError) bool {
	return errors.As(err, target)
}

func asRefreshError(err error, target **RefreshError) bool {
	return errors.As(err, target)
}

// IsRefreshFailure reports whether err came from a failed token refresh.
func IsRefreshFailure(err error) bool {
	var re *RefreshError
	return asRefreshError(err, &re)
}

// StatusCode returns the backend status behind err, or 0 when the request
// never produced a response (connectivity, cancellation).
func StatusCode(err error) int {
	var ae *apiError
	if asAPIError(err, &ae) {
		return ae.StatusCode
	}
	return 0
}
