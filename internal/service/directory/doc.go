// Package directory manages departments and recipients, including bulk
// CSV import of recipients.
package directory
