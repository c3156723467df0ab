// Package domain contains the core entities of the vocabulary trainer:
// catalog items, per-item spaced-repetition progress, learner statistics,
// and the review grade model. It is independent of any storage or
// delivery mechanism.
package domain
