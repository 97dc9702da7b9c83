package internal

import "errors"

// Error taxonomy for the pipeline. A failing consistency check is never an
// error; it is returned as a validator.Report. These sentinels cover the
// two conditions that must abort a single chapter's processing.
var (
	// ErrNotFound: a chapter or other required entity is absent from storage.
	ErrNotFound = errors.New("not found")

	// ErrDataIntegrity: the stored data contradicts itself, e.g. an ambiguous
	// terminology mapping, or a chapter missing from its own project's
	// ordered chapter list.
	ErrDataIntegrity = errors.New("data integrity violation")
)
