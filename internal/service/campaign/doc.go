// Package campaign launches phishing-simulation campaigns.
//
// The Service resolves a template and a recipient selection, creates the
// campaign row, then renders, sends and records a delivered event for each
// recipient in turn. It also owns bulk campaign deletion. It depends on
// repository interfaces defined in this package and on the sending
// contracts; it never imports transports or HTTP code.
package campaign
