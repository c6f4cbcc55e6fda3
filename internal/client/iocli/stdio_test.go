package iocli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeStdio подменяет stdin на pipe с заданным вводом
func pipeStdio(t *testing.T, input string) (*Stdio, *bytes.Buffer) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	go func() {
		_, _ = w.Write([]byte(input))
		_ = w.Close()
	}()

	out := &bytes.Buffer{}
	return NewStdioFrom(r, out), out
}

func TestNewStdio(t *testing.T) {
	assert.NotNil(t, NewStdio())
}

func TestPrintlnAndPrintf(t *testing.T) {
	stdio, out := pipeStdio(t, "")

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s", 1, "abc")
	_, err := stdio.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc!", out.String())
}

func TestReadInput(t *testing.T) {
	stdio, out := pipeStdio(t, "user input\nsecond line\n")

	first, err := stdio.ReadInput("Prompt: ")
	require.NoError(t, err)
	assert.Equal(t, "user input", first)

	// Буферизованный ввод не теряется между вызовами
	second, err := stdio.ReadInput("Again: ")
	require.NoError(t, err)
	assert.Equal(t, "second line", second)

	assert.Equal(t, "Prompt: Again: ", out.String())
}

func TestReadInput_LastLineWithoutNewline(t *testing.T) {
	stdio, _ := pipeStdio(t, "tail")

	result, err := stdio.ReadInput("")
	require.NoError(t, err)
	assert.Equal(t, "tail", result)

	_, err = stdio.ReadInput("")
	assert.Error(t, err)
}

func TestReadPassword_FromPipe(t *testing.T) {
	stdio, _ := pipeStdio(t, "secret-password\n")

	password, err := stdio.ReadPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret-password", password)
}
