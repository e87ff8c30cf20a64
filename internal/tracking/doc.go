// Package tracking serves the public links embedded in simulation emails.
//
// A click link (/l/{cid}/{rid}) records a clicked event and redirects to
// the education page for the campaign's template. A report link
// (/r/{cid}/{rid}) records a reported event and answers with a page that
// thanks the recipient and closes itself. Both are idempotent per
// (campaign, recipient) pair: the first call wins.
package tracking
