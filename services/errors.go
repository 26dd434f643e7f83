package services

import "errors"

// Validation and conflict errors surfaced to callers. Routes map these to
// HTTP statuses; none of them is retried automatically.
var (
	ErrChaletNotFound  = errors.New("chalet not found")
	ErrNotChaletOwner  = errors.New("chalet does not belong to this user")
	ErrRequestNotFound = errors.New("cleaning request not found")
	ErrNotRequestOwner = errors.New("cleaning request does not belong to this user")

	// ErrRequestNotOpen is the distinguishable conflict error: submitting or
	// accepting against a request that already left the open state.
	ErrRequestNotOpen = errors.New("request is no longer open")

	ErrRequestNotConfirmed = errors.New("request is not confirmed")
	ErrOfferNotFound       = errors.New("offer not found")
	ErrNotParticipant      = errors.New("user is not a participant of this request")
	ErrTemplateMismatch    = errors.New("checklist template does not belong to the request's chalet")
	ErrInvalidNotification = errors.New("notification requires a recipient and a title")
	ErrUserNotFound        = errors.New("user not found")
)
