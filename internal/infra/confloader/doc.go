// Package confloader provides configuration loading for QReader.
//
// Configuration is read with koanf from a YAML file and QREADER_*
// environment variables, then unmarshaled into a struct whose koanf tags
// name the keys. Priority (highest to lowest):
//
//  1. Environment variables
//  2. Configuration file
//  3. Values already set on the target (defaults)
//
// Environment names are matched against the target's koanf keys, so
// QREADER_SECURITY_SLOT_SIZE sets security.slot_size even though the key
// itself contains an underscore.
//
// Watcher reports changes to a config file via fsnotify for hot reload.
package confloader
