// Package httputil holds the JSON and HTML response helpers shared by the
// admin API and the tracking handlers, so every endpoint emits the same
// error envelope.
package httputil
