// Package types defines the Session and ValueStore interfaces, the field,
// writing-system and possibility-list entity types, and the standard error
// values for the lexfields custom-field access layer.
package types
