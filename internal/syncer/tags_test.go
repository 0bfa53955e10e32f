package syncer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeTags(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		incoming []string
		want     []string
	}{
		{"no existing", nil, []string{"a", "b"}, []string{"a", "b"}},
		{"no new", []string{"a"}, nil, []string{"a"}},
		{"subset", []string{"t1"}, []string{"t1"}, []string{"t1"}},
		{"appends new in first-seen order", []string{"t1"}, []string{"t3", "t1", "t2", "t3"}, []string{"t1", "t3", "t2"}},
		{"keeps existing order", []string{"z", "a"}, []string{"a", "m"}, []string{"z", "a", "m"}},
		{"dedupes existing", []string{"a", "a", "b"}, []string{"b"}, []string{"a", "b"}},
		{"drops empty names", []string{"", "a"}, []string{"", "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeTags(tt.existing, tt.incoming))
		})
	}
}

func TestMergeTags_Idempotent(t *testing.T) {
	existing := []string{"x", "y"}
	incoming := []string{"y", "z"}

	once := MergeTags(existing, incoming)
	twice := MergeTags(once, incoming)

	assert.Equal(t, once, twice)
	assert.False(t, tagsDiffer(once, twice))
}

func TestTagsDiffer(t *testing.T) {
	assert.False(t, tagsDiffer(nil, []string{}))
	assert.False(t, tagsDiffer([]string{"a", "b"}, []string{"a", "b"}))
	assert.True(t, tagsDiffer([]string{"a"}, []string{"a", "b"}))
	assert.True(t, tagsDiffer([]string{"b", "a"}, []string{"a", "b"}), "comparison is positional")
}
