package errors

import "errors"

// requested entity is not found.
var ErrMissing = errors.New("missing")

// entity to be created already exists.
var ErrAlreadyExists = errors.New("already exists")

// a training job is already running for the user; admission is rejected.
var ErrAlreadyRunning = errors.New("training already running")
