package edgar

import "errors"

var (
	// ErrInvalidCIK means the filer identifier is not a CIK (too long or non-numeric).
	ErrInvalidCIK = errors.New("invalid CIK")
	// ErrSourceUnavailable means EDGAR could not be reached or answered with an
	// unexpected error status.
	ErrSourceUnavailable = errors.New("EDGAR unavailable")
	// ErrNoFiling means no filing matched, or no info-table document exists at
	// any known path for the accession.
	ErrNoFiling = errors.New("no matching filing")
	// ErrMalformedDocument means the info table could not be parsed into
	// holdings even after sanitization.
	ErrMalformedDocument = errors.New("malformed info table document")
)
