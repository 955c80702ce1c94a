package domain

import (
	"strings"
	"testing"

	"roster/testutil"
)

// TestDomainDoesNotImportInternal keeps the domain layer free of any
// internal implementation package.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain must stay independent of internal packages")
}

// TestDomainStaysOffline keeps storage and transport clients out of the domain.
func TestDomainStaysOffline(t *testing.T) {
	forbidden := func(path string) bool {
		return strings.HasPrefix(path, "database/sql") ||
			strings.HasPrefix(path, "net/") ||
			strings.HasPrefix(path, "github.com/aws/")
	}
	testutil.AssertNoDirectImports(t, ".", forbidden, "domain must not reach storage or network clients")
}
