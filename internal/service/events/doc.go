// Package events records campaign events. Clicked and reported events are
// insert-if-absent per (campaign, recipient); delivered events always
// append.
package events
