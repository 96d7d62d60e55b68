// File: /models/post_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlugIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		slug := GenerateSlug()
		assert.False(t, seen[slug], "slug %q generated twice", slug)
		seen[slug] = true
	}
}

func TestGenerateSlugIsURLSafe(t *testing.T) {
	slug := GenerateSlug()

	assert.NotContains(t, slug, " ")
	assert.NotContains(t, slug, "/")

	// ddmmyy prefix, then the random part
	assert.Regexp(t, `^\d{6}-[0-9a-f-]{36}$`, slug)
	assert.Equal(t, time.Now().Format("020106"), slug[:6])
}

func TestStringSliceScan(t *testing.T) {
	var tags StringSlice

	assert.NoError(t, tags.Scan([]byte(`["go","web"]`)))
	assert.Equal(t, StringSlice{"go", "web"}, tags)

	assert.NoError(t, tags.Scan(`["single"]`))
	assert.Equal(t, StringSlice{"single"}, tags)

	assert.NoError(t, tags.Scan(nil))
	assert.Nil(t, tags)

	assert.Error(t, tags.Scan(42))
}

func TestStringSliceMarshalsNilAsEmptyArray(t *testing.T) {
	var tags StringSlice
	data, err := tags.MarshalJSON()

	assert.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
