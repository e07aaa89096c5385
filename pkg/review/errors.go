package review

import "errors"

// ErrLookup indicates a classified item identifier could not be resolved
// back to item data. This is a store-consistency fault; the review run
// that hits it is aborted rather than rendering a blank entry.
var ErrLookup = errors.New("broken item id lookup")

// ErrAmbiguousUpsert indicates more than one existing note matched a
// review identifier. Nothing is written; duplicates have to be resolved
// manually before the review can be regenerated.
var ErrAmbiguousUpsert = errors.New("multiple notes match review identifier")
