// Package sanitizer normalizes untrusted user input before it is compared or
// stored. Email normalization in particular must run before every lookup or
// uniqueness check, otherwise "User@Example.COM " and "user@example.com"
// become two different accounts.
package sanitizer
