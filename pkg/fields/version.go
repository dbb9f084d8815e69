package fields

// Version is the release of the field access layer.
const Version = "0.1.0"
