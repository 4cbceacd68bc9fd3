package container_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/tentcrypt/internal/container"
)

const unknownTag = container.Tag(0x0000_0000_0058_5858)

// build writes a canonical container with the given ciphertext and returns its bytes.
func build(t *testing.T, ciphertext []byte, extra func(w *container.Writer)) []byte {
	t.Helper()

	var buf bytes.Buffer

	w := container.NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRecord(container.TagSaltA, bytes.Repeat([]byte{0xA}, 16)))

	if extra != nil {
		extra(w)
	}

	require.NoError(t, w.WriteRecord(container.TagSaltB, bytes.Repeat([]byte{0xB}, 16)))
	require.NoError(t, w.WriteRecord(container.TagPasswordHash, bytes.Repeat([]byte{0xC}, 64)))
	require.NoError(t, w.WriteRecordHead(container.TagCiphertext, uint64(len(ciphertext))))

	buf.Write(ciphertext)

	require.NoError(t, w.WriteRecord(container.TagPlaintextDigest, bytes.Repeat([]byte{0xD}, 64)))

	return buf.Bytes()
}

func TestHeaderLayout(t *testing.T) {
	t.Parallel()

	data := build(t, nil, nil)

	assert.Equal(t, []byte(container.Magic), data[:5])
	assert.Equal(t, container.Version, data[5])
	assert.Equal(t, make([]byte, 10), data[6:16])
	assert.Equal(t, uint64(container.TagSaltA), binary.LittleEndian.Uint64(data[16:24]))
	assert.Equal(t, uint64(16), binary.LittleEndian.Uint64(data[24:32]))
}

func TestReadIndex(t *testing.T) {
	t.Parallel()

	ciphertext := []byte("not really encrypted")
	data := build(t, ciphertext, nil)

	index, err := container.Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, container.Version, index.Version)
	assert.Equal(t, 5, index.Len())
	assert.Equal(t, 0, index.Skipped())

	saltA, ok := index.Inline(container.TagSaltA)
	require.True(t, ok)
	assert.Equal(t, bytes.Repeat([]byte{0xA}, 16), saltA)

	_, ok = index.Inline(container.TagCiphertext)
	assert.False(t, ok, "ciphertext must not be buffered")

	info, ok := index.Ciphertext()
	require.True(t, ok)
	assert.Equal(t, uint64(len(ciphertext)), info.Length)
	assert.Equal(t, ciphertext, data[info.Offset:info.Offset+info.Length])

	digest, ok := index.Inline(container.TagPlaintextDigest)
	require.True(t, ok)
	assert.Equal(t, bytes.Repeat([]byte{0xD}, 64), digest)
}

func TestReadSkipsUnknownRecords(t *testing.T) {
	t.Parallel()

	data := build(t, []byte("payload"), func(w *container.Writer) {
		require.NoError(t, w.WriteRecord(unknownTag, []byte("from the future")))
		require.NoError(t, w.WriteRecord(unknownTag+1, nil))
	})

	index, err := container.Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 5, index.Len())
	assert.Equal(t, 2, index.Skipped())

	saltB, ok := index.Inline(container.TagSaltB)
	require.True(t, ok)
	assert.Equal(t, bytes.Repeat([]byte{0xB}, 16), saltB)
}

func TestReadRejectsMalformed(t *testing.T) {
	t.Parallel()

	valid := build(t, []byte("12345678"), nil)

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "empty input",
			data: nil,
		},
		{
			name: "short header",
			data: []byte(container.Magic),
		},
		{
			name: "bad magic",
			data: append([]byte("XENTC"), valid[5:]...),
		},
		{
			name: "truncated record head",
			data: valid[:container.HeaderSize+5],
		},
		{
			name: "truncated inline payload",
			data: valid[:container.HeaderSize+container.HeadSize+4],
		},
		{
			name: "truncated ciphertext",
			data: valid[:len(valid)-container.HeadSize-64-3],
		},
		{
			name: "duplicate salt",
			data: build(t, nil, func(w *container.Writer) {
				require.NoError(t, w.WriteRecord(container.TagSaltA, bytes.Repeat([]byte{0xE}, 16)))
			}),
		},
		{
			name: "unknown record past the end",
			data: func() []byte {
				var buf bytes.Buffer

				w := container.NewWriter(&buf)
				require.NoError(t, w.WriteHeader())
				require.NoError(t, w.WriteRecordHead(unknownTag, 1<<40))

				return buf.Bytes()
			}(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := container.Read(bytes.NewReader(tc.data))
			require.ErrorIs(t, err, container.ErrMalformed)
		})
	}
}

func TestReadRejectsOversizedInlinePayload(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	w := container.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRecord(container.TagPasswordHash, make([]byte, container.MaxInlinePayload+1)))

	_, err := container.Read(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, container.ErrMalformed)
}

func TestReadIgnoresReservedHeaderBytes(t *testing.T) {
	t.Parallel()

	data := build(t, []byte("x"), nil)
	copy(data[6:16], bytes.Repeat([]byte{0xFF}, 10))

	index, err := container.Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 5, index.Len())
}

func TestHeaderOnlyContainer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, container.NewWriter(&buf).WriteHeader())

	index, err := container.Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())

	_, ok := index.Ciphertext()
	assert.False(t, ok)
}

func TestCiphertextIsAlwaysDeferred(t *testing.T) {
	t.Parallel()

	// A ciphertext written as a normal record is still read deferred.
	var buf bytes.Buffer

	w := container.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRecord(container.TagCiphertext, []byte("abc")))

	index, err := container.Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	rec, ok := index.Record(container.TagCiphertext)
	require.True(t, ok)
	assert.True(t, rec.Deferred())
	assert.Equal(t, uint64(container.HeaderSize+container.HeadSize), rec.Offset)
}

func TestTagString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "salt-a", container.TagSaltA.String())
	assert.True(t, container.TagPlaintextDigest.Known())
	assert.False(t, unknownTag.Known())
	assert.Equal(t, "unknown(0x0000000000585858)", unknownTag.String())
}

func TestReadLogsHeaderVersion(t *testing.T) {
	hook := test.NewGlobal()
	level := log.GetLevel()

	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() { log.SetLevel(level) })

	data := build(t, []byte("payload"), func(w *container.Writer) {
		require.NoError(t, w.WriteRecord(unknownTag, []byte("x")))
	})

	_, err := container.Read(bytes.NewReader(data))
	require.NoError(t, err)

	var parsed, skipped *log.Entry

	for _, entry := range hook.AllEntries() {
		switch entry.Message {
		case "Parsed container":
			parsed = entry
		case "Skipping unknown container record":
			skipped = entry
		}
	}

	require.NotNil(t, parsed)
	assert.Equal(t, log.DebugLevel, parsed.Level)
	assert.EqualValues(t, container.Version, parsed.Data["version"])
	assert.Equal(t, 1, parsed.Data["skipped"])

	require.NotNil(t, skipped)
	assert.Equal(t, log.WarnLevel, skipped.Level)
}
