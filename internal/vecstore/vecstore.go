// Package vecstore stores user notes and retrieves them by similarity.
//
// Retrieval is scoped to the owning user; cross-user leakage is a
// correctness violation. All failures are absorbed into neutral results
// (false / empty / zero) so retrieval problems never surface as errors.
package vecstore

import "context"

// VectorNotes is the retrieval collaborator consumed by the responder and
// the collector flow.
type VectorNotes interface {
	// Add stores a note for the user, reporting success.
	Add(ctx context.Context, userID, text string) bool

	// Query returns up to limit note documents for the user, best match
	// first. Failures yield an empty list.
	Query(ctx context.Context, userID, text string, limit int) []string

	// Count reports how many notes the user has stored. Failures yield zero.
	Count(ctx context.Context, userID string) int
}
