package content

import "errors"

// Sentinel errors shared by the store, the backoffice and the build.
var (
	ErrNotFound          = errors.New("not found")
	ErrSlugTaken         = errors.New("slug already in use")
	ErrCollectionInUse   = errors.New("collection still has articles")
	ErrAlreadySubscribed = errors.New("email already subscribed")
	ErrNotAuthorized     = errors.New("not authorized")
)
