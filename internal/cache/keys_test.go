package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "milestone list",
			serviceName: "content",
			objectType:  "milestones",
			identifier:  "active",
			expectedKey: "pywhiz:content:milestones:active",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "content",
			objectType:  "learn",
			identifier:  "m1",
			paramsKey:   []string{},
			expectedKey: "pywhiz:content:learn:m1",
		},
		{
			name:        "with one paramsKey",
			serviceName: "content",
			objectType:  "questions",
			identifier:  "m1",
			paramsKey:   []string{"code"},
			expectedKey: "pywhiz:content:questions:m1:code",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "content",
			objectType:  "questions",
			identifier:  "m1",
			paramsKey:   []string{"mcq", "v2"},
			expectedKey: "pywhiz:content:questions:m1:mcq_v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...))
		})
	}
}
