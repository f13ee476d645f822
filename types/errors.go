package types

import "errors"

var (
	// ErrUnreadablePDF means the uploaded byte stream could not be parsed
	// as a PDF. Fatal to that upload; the document stays unprocessed.
	ErrUnreadablePDF = errors.New("unreadable pdf")

	// ErrIndexNotFound means no durable index artifact exists for the
	// document. Callers distinguish "not yet processed" from "never
	// existed" against the document record.
	ErrIndexNotFound = errors.New("index not found")

	// ErrRetrievalUnavailable means the index could not be loaded or the
	// query could not be embedded. Surfaced as a "not ready" condition.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrGenerationUnconfigured means no generation credential is present.
	// Components degrade to a canned response instead of surfacing this.
	ErrGenerationUnconfigured = errors.New("generation model not configured")

	// ErrGenerationParse means the model output was not in the expected
	// structured form.
	ErrGenerationParse = errors.New("unparseable generation output")
)
