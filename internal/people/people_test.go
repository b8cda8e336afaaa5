package people

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileStubText(t *testing.T) {
	p := ProfileStub{Title: "Staff Engineer", Author: "Jane Doe", Content: "Builds pipelines"}
	assert.Equal(t, "Staff Engineer Jane Doe Builds pipelines", p.Text())
	assert.Equal(t, "", ProfileStub{}.Text())
}

func TestProfileStubKey(t *testing.T) {
	a := ProfileStub{URL: "https://LinkedIn.com/in/Jane "}
	b := ProfileStub{URL: "https://linkedin.com/in/jane"}
	assert.Equal(t, a.Key(), b.Key())
}

func TestIsLinkedIn(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.linkedin.com/in/jane", true},
		{"https://linkedin.com/in/jane", true},
		{"https://uk.linkedin.com/in/jane", true},
		{"https://github.com/jane", false},
		{"https://notlinkedin.com/in/jane", false},
		{"://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileStub{URL: tt.url}.IsLinkedIn())
		})
	}
}

func TestClampResults(t *testing.T) {
	assert.Equal(t, 1, ClampResults(0))
	assert.Equal(t, 25, ClampResults(100))
	assert.Equal(t, 10, ClampResults(10))
}
