// Package email provides transactional email delivery behind a small
// EmailSender interface. The production implementation sends through Postmark;
// DevSender writes messages to local files for development so flows that send
// verification and reset links can be exercised without an outbound provider.
package email
