package app

// DiffLocks exposes diffLocks for testing.
var DiffLocks = diffLocks
