package dump_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irgraph/internal/dump"
)

func TestWriteModuleRendersMaxFunction(t *testing.T) {
	m := dump.MaxModule()

	var buf bytes.Buffer
	require.NoError(t, dump.WriteModule(&buf, m))

	out := buf.String()
	assert.Contains(t, out, "define")
	assert.Contains(t, out, "@max")
	assert.Contains(t, out, "icmp")
	assert.Contains(t, out, "br")
	assert.Contains(t, out, "ret")
	assert.Contains(t, out, "label bb")

	blockLabels := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "bb") && strings.HasSuffix(line, ":") {
			blockLabels++
		}
	}
	assert.Equal(t, 3, blockLabels)
}
