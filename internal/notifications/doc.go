// Package notifications delivers push notifications through ntfy. When no
// topic is configured the service degrades to a noop so callers never need
// to branch on configuration.
package notifications
