package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", MaskEmail("john@example.com"))
	assert.Equal(t, "ab***@example.com", MaskEmail("ab@example.com"))
	assert.Equal(t, "a***@example.com", MaskEmail("a@example.com"))
	// No @ degrades to a name mask.
	assert.Equal(t, "n***", MaskEmail("not-an-email"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "***-4567", MaskPhone("555-123-4567"))
	assert.Equal(t, "***-4567", MaskPhone("+1 (555) 123 4567"))
	assert.Equal(t, "***", MaskPhone("123"))
	assert.Equal(t, "***", MaskPhone(""))
}

func TestMaskName(t *testing.T) {
	assert.Equal(t, "J***", MaskName("John Smith"))
	assert.Equal(t, "Ø***", MaskName("Østergaard"))
	assert.Equal(t, "", MaskName("  "))
}
