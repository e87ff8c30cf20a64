// Package storage archives export files, either in an S3 bucket or in a
// local directory. Both stores return a location string for the stored
// object.
package storage
