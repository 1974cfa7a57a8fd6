// Package models defines the content store rows and the wire payloads the
// sync receiver accepts.
//
// Store rows (Post, PostMeta, Comment, User, ...) are GORM models; external
// identity is carried as metadata rows keyed by the content_sync_* meta keys,
// never as columns, so the local key space stays independent of the source's.
//
// Payload types mirror the sender's flat record layout field by field. Every
// attribute the engine acts on (parent reference, author, media, comments,
// taxonomy, connections) is an explicit field; unrecognized attributes pass
// through in MetaInput.
package models
