package process

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpectBufferConsumesThroughFirstMatch(t *testing.T) {
	t.Parallel()

	var buf expectBuffer
	buf.write([]byte("login: admin\npassword: "))

	out, ok := buf.consume(regexp.MustCompile(`login: `))
	require.True(t, ok)
	require.Equal(t, "login: ", out)
	require.Equal(t, "admin\npassword: ", buf.String())

	out, ok = buf.consume(regexp.MustCompile(`password: `))
	require.True(t, ok)
	require.Equal(t, "admin\npassword: ", out)
	require.Zero(t, buf.Len())
}

func TestExpectBufferKeepsDataWhenNoMatch(t *testing.T) {
	t.Parallel()

	var buf expectBuffer
	buf.write([]byte("partial out"))

	_, ok := buf.consume(regexp.MustCompile(`\$ $`))
	require.False(t, ok)
	require.Equal(t, "partial out", buf.String())

	buf.write([]byte("put\n$ "))
	out, ok := buf.consume(regexp.MustCompile(`\$ $`))
	require.True(t, ok)
	require.Equal(t, "partial output\n$ ", out)
}

func TestExpectBufferLosesNoBytesAcrossCalls(t *testing.T) {
	t.Parallel()

	stream := "a1b22c333d4444"
	var buf expectBuffer
	var got strings.Builder
	re := regexp.MustCompile(`\d+`)

	for i := 0; i < len(stream); i += 3 {
		end := i + 3
		if end > len(stream) {
			end = len(stream)
		}
		buf.write([]byte(stream[i:end]))
		for {
			out, ok := buf.consume(re)
			if !ok {
				break
			}
			got.WriteString(out)
		}
	}
	got.WriteString(buf.String())

	require.Equal(t, stream, got.String())
}
