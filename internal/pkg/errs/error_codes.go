/*
Package errs provides the custom error type and application-level error codes.

These codes identify specific business or system errors both inside the server
and in responses to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate exceeded the configured limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Journal and Content Business Logic Errors
const (
	// ErrPostNotFound indicates that the requested journal post does not exist.
	ErrPostNotFound = 2101

	// ErrNotPostOwner indicates that the authenticated user is not the author of the post.
	ErrNotPostOwner = 2102

	// ErrPostTitleRequired indicates that a post was submitted without a title.
	ErrPostTitleRequired = 2103

	// ErrPostContentTooLong indicates that the post body exceeded the maximum length.
	ErrPostContentTooLong = 2104

	// ErrLikeNotFound indicates an attempt to remove a like that was never recorded.
	ErrLikeNotFound = 2201

	// ErrImageCountInvalid indicates that too many photos were attached to a post.
	ErrImageCountInvalid = 2301

	// ErrFileSizeTooLarge indicates that an uploaded photo exceeded the size limit.
	ErrFileSizeTooLarge = 2302
)

// 3xxx: User, Identity, and Session Errors
const (
	// ErrMissingIdentity indicates a user record without any usable identifier.
	// The session cannot be established and the client must sign in again.
	ErrMissingIdentity = 3001

	// ErrUnauthorized indicates a missing, invalid, or expired bearer token.
	ErrUnauthorized = 3002

	// ErrAlreadyLoggedIn indicates an authenticated user invoking a login-only endpoint.
	ErrAlreadyLoggedIn = 3003

	// ErrInvalidUserId indicates that the supplied login id failed validation.
	ErrInvalidUserId = 3101

	// ErrInvalidPassword indicates that the supplied password failed validation.
	ErrInvalidPassword = 3102

	// ErrUserAlreadyExists indicates that the login id is already registered.
	ErrUserAlreadyExists = 3103

	// ErrInvalidCredentials indicates an id/password pair that does not match any account.
	ErrInvalidCredentials = 3104

	// ErrUserNotFound indicates that no account matches the given criteria.
	ErrUserNotFound = 3105

	// ErrOldPasswordInvalid indicates that the current password given for a change was wrong.
	ErrOldPasswordInvalid = 3106

	// ErrSocialVerifyFailed indicates that the social provider rejected the credential
	// or the provider profile could not be retrieved.
	ErrSocialVerifyFailed = 3201

	// ErrSocialUserNotFound indicates that no social account matches the given social id.
	ErrSocialUserNotFound = 3202
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates that the photo storage backend rejected an operation.
	ErrFileStorageFailed = 5001

	// ErrNetworkFailure indicates that an upstream service could not be reached.
	ErrNetworkFailure = 5002
)
