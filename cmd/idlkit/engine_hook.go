package main

import "idlkit/internal/engine"

// newEngine is swapped in tests.
var newEngine = func() engine.Engine { return engine.New() }
