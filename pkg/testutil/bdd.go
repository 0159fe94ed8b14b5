package testutil

import "testing"

// Given, When, Then and And name subtests after the clause they describe, so a
// failing run reads like the scenario it broke. A failed clause stops the
// clauses after it.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	clause(t, "Given", desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	clause(t, "When", desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	clause(t, "Then", desc, fn)
}

func And(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	clause(t, "And", desc, fn)
}

func clause(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	if !t.Run(keyword+" "+desc, fn) {
		t.FailNow()
	}
}
