package memrepo

import (
	"testing"

	"social-system/internal/repository/repotest"
)

func TestMemoryWithTestSuite(t *testing.T) {
	repotest.RunAll(t, New())
}
