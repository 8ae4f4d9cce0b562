package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/readiz/internal/store"
)

func TestStoreTableMatchesSchema(t *testing.T) {
	columns := map[string]bool{}
	for _, c := range store.LLMRequestEventsTable.Columns {
		columns[c.Name] = true
	}

	fields := LLMRequestEvent{}.Fields()
	require.Len(t, store.LLMRequestEventsTable.Columns, len(fields)+1, "id plus one column per field")
	assert.True(t, columns["id"])
	for _, f := range fields {
		d := f.Descriptor()
		assert.True(t, columns[d.Name], "column %q missing from store", d.Name)
	}
}

func TestStoreIndexesMatchSchema(t *testing.T) {
	indexed := map[string]bool{}
	for _, idx := range store.LLMRequestEventsTable.Indexes {
		for _, c := range idx.Columns {
			indexed[c.Name] = true
		}
	}
	for _, idx := range (LLMRequestEvent{}).Indexes() {
		for _, name := range idx.Descriptor().Fields {
			assert.True(t, indexed[name], "index on %q missing from store", name)
		}
	}
}
