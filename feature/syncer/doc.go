// Package syncer receives content records pushed from a remote source
// instance and reconciles them idempotently into the local content store.
//
// The source and target assign unrelated primary keys, so every synced
// record carries its source-assigned external ID as metadata. Re-delivery
// of the same record never duplicates it: posts and pages update in place
// only when strictly newer by modification time, media files dedupe by
// filename, comments dedupe by their (external ID, source) pair.
//
// # Components
//
//   - Engine: the create-vs-update state machine for posts and pages.
//   - Resolver / AuthorMapper: external ID to local ID mapping.
//   - MediaResolver: remote file fetch with filename dedup and scoped
//     external-host permits.
//   - CommentLinker: immutable comment attachment.
//   - ConnectionLinker: post-upsert hook creating named links between
//     already-synced records.
//   - UserSyncer: account reconciliation by login.
//
// Each inbound request reconciles one record to completion independently;
// there is no cross-request coordination per external ID.
package syncer
