package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("cet email est déjà utilisé")
	ErrInvalidCredentials = errors.New("identifiants invalides")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrDocumentNotFound = errors.New("document not found")
	ErrVideoNotFound    = errors.New("video not found")
	ErrQcmNotFound      = errors.New("qcm not found")
	ErrFileNotFound     = errors.New("source file not found")

	ErrEmptyQcm         = errors.New("qcm has no questions")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAttemptFinished  = errors.New("attempt already finished")
	ErrEmptySelection   = errors.New("no option selected")
	ErrUnknownOption    = errors.New("option is not part of the question")
	ErrNotInFeedback    = errors.New("question has not been validated yet")
	ErrAlreadyValidated = errors.New("question already validated")
)
