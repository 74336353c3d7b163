// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
//
// The follow-up use case is split in three collaborators:
//
//   - Initializer creates the entity and its activity log if they are absent.
//   - Orchestrator runs one transactional read-mutate-write unit over the pair.
//   - FollowupService validates input, logs, and implements ports.FollowupService.
package app
