package all

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anonymizer/internal/storage"
)

func TestAllBackendsRegistered(t *testing.T) {
	kinds := storage.ListKinds()
	for _, k := range []string{"mssql", "mysql", "postgres", "sqlite"} {
		assert.Contains(t, kinds, k)
	}
}
