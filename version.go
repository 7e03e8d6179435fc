package fsmkit

// Version is the fsmkit release.
const Version = "0.1.0"
