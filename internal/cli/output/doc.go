// Package output renders qreader-cli results.
//
// Results print as aligned text by default, or as JSON or YAML for
// scripting. Field names follow the json tags of the rendered values.
package output
