// Package tracking holds the document model for follow-up tracking: an
// aggregate Entity document, its paired append-only ActivityLog document,
// and the pure Mutation applied to both inside one transactional unit.
//
// Persisted layout, per entity key k:
//
//	k              {"kind":"entity","name":...,"location":...,"followupCount":N,"lastActivityAt":T}
//	k::activities  {"kind":"activities","entityId":k,"events":[...]}
//
// followupCount and lastActivityAt are absent until the first update.
package tracking
