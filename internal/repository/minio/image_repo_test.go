package minio

import (
	"testing"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/stretchr/testify/assert"
)

var testCfg = &cfg.MinIOCfg{
	BucketName:    "products",
	PublicBaseURL: "http://localhost:9000",
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/products/pens/blue.png", PublicURL(testCfg, "pens/blue.png"))
	assert.Equal(t, "http://localhost:9000/products/my%20pen%3F.png", PublicURL(testCfg, "my pen?.png"))
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		key  string
		ok   bool
	}{
		{name: "plain", url: "http://localhost:9000/products/pens/blue.png", key: "pens/blue.png", ok: true},
		{name: "escaped", url: "http://localhost:9000/products/my%20pen%3F.png", key: "my pen?.png", ok: true},
		{name: "query stripped", url: "http://localhost:9000/products/a.png?v=2", key: "a.png", ok: true},
		{name: "other bucket", url: "http://localhost:9000/avatars/a.png"},
		{name: "external", url: "https://images.example.com/products/a.png"},
		{name: "bucket only", url: "http://localhost:9000/products/"},
		{name: "bad escape", url: "http://localhost:9000/products/%zz"},
		{name: "empty", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := KeyFromURL(testCfg, tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestKeyFromURL_RoundTrip(t *testing.T) {
	for _, key := range []string{"a.png", "nested/dir/file name.webp", "ünï/cødé.gif"} {
		got, ok := KeyFromURL(testCfg, PublicURL(testCfg, key))
		assert.True(t, ok, key)
		assert.Equal(t, key, got)
	}
}
