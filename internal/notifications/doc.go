// Package notifications delivers upload and conversion events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set, so
// callers never need to guard their notification calls.
package notifications
