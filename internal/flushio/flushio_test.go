package flushio

import (
	"bufio"
	"errors"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainWriter struct{ sb strings.Builder }

func (pw *plainWriter) Write(p []byte) (int, error) { return pw.sb.Write(p) }

func TestNewWriteFlusher(t *testing.T) {
	var sb strings.Builder
	wf := NewWriteFlusher(&sb)
	wf.Write([]byte("now"))
	assert.Equal(t, "now", sb.String(), "expected in-memory writes to pass through")

	bw := bufio.NewWriter(ioutil.Discard)
	assert.Equal(t, WriteFlusher(bw), NewWriteFlusher(bw))

	var pw plainWriter
	wf = NewWriteFlusher(&pw)
	wf.Write([]byte("later"))
	assert.Equal(t, "", pw.sb.String(), "expected buffering")
	require.NoError(t, wf.Flush())
	assert.Equal(t, "later", pw.sb.String())

	assert.NoError(t, NewWriteFlusher(ioutil.Discard).Flush())
}

type failFlusher struct{ err error }

func (ff failFlusher) Write(p []byte) (int, error) { return len(p), nil }
func (ff failFlusher) Flush() error                { return ff.err }

func TestWriteFlushers(t *testing.T) {
	assert.Nil(t, WriteFlushers(nil, nil))

	var a, b strings.Builder
	one := NewWriteFlusher(&a)
	assert.Equal(t, one, WriteFlushers(nil, one))

	wf := WriteFlushers(one, WriteFlushers(NewWriteFlusher(&b)))
	_, err := wf.Write([]byte("both"))
	require.NoError(t, err)
	assert.Equal(t, "both", a.String())
	assert.Equal(t, "both", b.String())

	first := errors.New("first")
	wf = WriteFlushers(failFlusher{first}, failFlusher{errors.New("second")}, one)
	assert.Equal(t, first, wf.Flush())
}
