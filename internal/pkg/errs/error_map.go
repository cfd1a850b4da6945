/*
Package errs provides the custom error type and application-level error codes.

This file maps every error code to its CustomError template, standardizing HTTP
responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status means HTTP 200 with a non-zero business code in the envelope.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters: %s."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Journal and Content Business Logic Errors
	ErrPostNotFound:       {Code: ErrPostNotFound, Message: "Post not found.", Status: http.StatusNotFound},
	ErrNotPostOwner:       {Code: ErrNotPostOwner, Message: "Only the author can modify this post.", Status: http.StatusForbidden},
	ErrPostTitleRequired:  {Code: ErrPostTitleRequired, Message: "A title is required."},
	ErrPostContentTooLong: {Code: ErrPostContentTooLong, Message: "Post content is too long."},
	ErrLikeNotFound:       {Code: ErrLikeNotFound, Message: "Like not found.", Status: http.StatusNotFound},
	ErrImageCountInvalid:  {Code: ErrImageCountInvalid, Message: "Invalid number of photos."},
	ErrFileSizeTooLarge:   {Code: ErrFileSizeTooLarge, Message: "Photo is too large."},

	// 3xxx: User, Identity, and Session Errors
	ErrMissingIdentity:    {Code: ErrMissingIdentity, Message: "Your session could not be restored. Please sign in again.", Status: http.StatusUnauthorized},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidUserId:      {Code: ErrInvalidUserId, Message: "Invalid login id."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "This login id is already taken."},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect id or password."},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found."},
	ErrOldPasswordInvalid: {Code: ErrOldPasswordInvalid, Message: "Current password is incorrect."},
	ErrSocialVerifyFailed: {Code: ErrSocialVerifyFailed, Message: "Social sign-in failed. Please try again."},
	ErrSocialUserNotFound: {Code: ErrSocialUserNotFound, Message: "Social account not found.", Status: http.StatusNotFound},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "Photo upload failed. Please try again."},
	ErrNetworkFailure:    {Code: ErrNetworkFailure, Message: "A required service is unavailable. Please try again later.", Status: http.StatusBadGateway},
}
