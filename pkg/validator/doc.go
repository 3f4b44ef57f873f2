// Package validator provides composable validation rules for user input.
// Rules are plain values combined with Apply, which collects every failing
// rule into a single ValidationErrors value instead of stopping at the first.
package validator
