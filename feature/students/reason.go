package students

import (
	"errors"

	"kivo-exporter/core/kivo"
)

// ReasonKind enumerates every way a student or spine can be excluded.
// The set is closed so tests and consumers match on kind, not prose.
type ReasonKind string

const (
	// ReasonMissingData marks a student payload without a data object.
	ReasonMissingData ReasonKind = "missing_data"
	// ReasonEmptyData marks a student whose data object is empty.
	ReasonEmptyData ReasonKind = "empty_data"
	// ReasonOfficialAccount marks a student with the official-account school id.
	ReasonOfficialAccount ReasonKind = "official_account"
	// ReasonExcludedID marks a student excluded as a configured special case.
	ReasonExcludedID ReasonKind = "excluded_id"
	// ReasonMissingName marks a spine without a usable name.
	ReasonMissingName ReasonKind = "missing_name"
	// ReasonType marks a spine whose type tag is not the accepted one.
	ReasonType ReasonKind = "type"
	// ReasonKeyword marks a spine whose name contains a blocked keyword.
	ReasonKeyword ReasonKind = "keyword"
	// ReasonSuffix marks a spine whose name ends with a blocked suffix.
	ReasonSuffix ReasonKind = "suffix"
	// ReasonNoForms marks a student that produced neither forms nor skips.
	ReasonNoForms ReasonKind = "no_forms"
	// ReasonFetchFailed marks a student whose fetch never succeeded.
	ReasonFetchFailed ReasonKind = "fetch_failed"
)

// SkipReason is a closed rejection variant: a kind plus an optional detail
// (the offending type tag, keyword, suffix, or fetch failure text).
type SkipReason struct {
	Kind   ReasonKind
	Detail string
}

// String renders the stable audit text written to the skipped report.
func (r SkipReason) String() string {
	switch r.Kind {
	case ReasonMissingData:
		return "missing 'data' payload"
	case ReasonEmptyData:
		return "'data' payload is empty"
	case ReasonOfficialAccount:
		return "official account"
	case ReasonExcludedID:
		return "excluded id"
	case ReasonMissingName:
		return "missing name or invalid data"
	case ReasonType:
		return "type (" + r.Detail + ")"
	case ReasonKeyword:
		return "keyword (" + r.Detail + ")"
	case ReasonSuffix:
		return "suffix (" + r.Detail + ")"
	case ReasonNoForms:
		return "no parsable forms found"
	case ReasonFetchFailed:
		return r.Detail
	}
	return string(r.Kind)
}

// fetchReason converts a fetch error into the whole-student skip reason.
func fetchReason(err error) SkipReason {
	var apiErr *kivo.APIError
	if errors.As(err, &apiErr) {
		return SkipReason{Kind: ReasonFetchFailed, Detail: apiErr.Reason()}
	}
	return SkipReason{Kind: ReasonFetchFailed, Detail: err.Error()}
}
