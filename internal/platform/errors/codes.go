// Package errors provides structured domain errors for the hall of fame.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Catalog errors
	CodeDuplicateCode   Code = "DUPLICATE_CODE"
	CodeUnknownCode     Code = "UNKNOWN_CODE"
	CodeCyclicSupersede Code = "CYCLIC_SUPERSEDE"
	CodeInvalidID       Code = "INVALID_ID"

	// Registry errors
	CodeSubjectNotFound Code = "SUBJECT_NOT_FOUND"
	CodeInvalidName     Code = "INVALID_NAME"
	CodeCorruptRecord   Code = "CORRUPT_RECORD"

	// Configuration errors
	CodePackSyntax    Code = "PACK_SYNTAX"
	CodeConfigInvalid Code = "CONFIG_INVALID"

	// Storage errors
	CodeStorageUnconfigured Code = "STORAGE_UNCONFIGURED"

	// CodeInternal represents an unexpected failure.
	CodeInternal Code = "INTERNAL"
)
