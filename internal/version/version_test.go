package version_test

import (
	"testing"

	"dicehook/internal/version"
)

func TestVersionIsSet(t *testing.T) {
	t.Parallel()

	if v := version.String(); v == "" {
		t.Fatal("version.String() must not be empty")
	}
}
