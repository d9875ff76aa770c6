package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/encoding"
)

func readAll(t *testing.T, input []byte) (string, encoding.Charset) {
	t.Helper()

	r, cs, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), cs
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Fecha;Descripción;Importe\n2024-01-02;Café;12.50\n"

	got, cs := readAll(t, []byte(input))
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, cs)
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// "Descripción;Importe\n" with ó = 0xF3.
	latin1 := []byte{
		'D', 'e', 's', 'c', 'r', 'i', 'p', 'c', 'i', 0xF3, 'n', ';',
		'I', 'm', 'p', 'o', 'r', 't', 'e', '\n',
	}

	got, cs := readAll(t, latin1)
	assert.Equal(t, "Descripción;Importe\n", got)
	assert.NotEqual(t, encoding.UTF8, cs)
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("date,amount\n")...)

	got, cs := readAll(t, input)
	assert.Equal(t, "date,amount\n", got)
	assert.Equal(t, encoding.UTF8, cs)
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// UTF-16 LE BOM followed by "ab\n".
	input := []byte{0xFF, 0xFE, 'a', 0x00, 'b', 0x00, '\n', 0x00}

	got, cs := readAll(t, input)
	assert.Equal(t, "ab\n", got)
	assert.Equal(t, encoding.UTF16LE, cs)
}

func TestNewUTF8Reader_UTF16BE(t *testing.T) {
	input := []byte{0xFE, 0xFF, 0x00, 'a', 0x00, 'b'}

	got, cs := readAll(t, input)
	assert.Equal(t, "ab", got)
	assert.Equal(t, encoding.UTF16BE, cs)
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	got, cs := readAll(t, nil)
	assert.Empty(t, got)
	assert.Equal(t, encoding.UTF8, cs)
}

func TestDetect_MultiByteCutAtWindow(t *testing.T) {
	// Fill the window so that a two byte "é" straddles its end.
	sample := []byte(strings.Repeat("a", 4095) + "é")[:4096]

	assert.Equal(t, encoding.UTF8, encoding.Detect(sample))
}
