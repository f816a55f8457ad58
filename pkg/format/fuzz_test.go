package format_test

import (
	"bytes"
	"testing"

	"github.com/Beastly713/stegano/pkg/format"
)

// FuzzRead feeds random byte streams into the header parser.
// Garbage must be rejected with an error, never a panic.
func FuzzRead(f *testing.F) {
	valid, _ := (&format.Header{
		Version:        format.Version,
		Flags:          format.FlagCompressed,
		BitsPerChannel: 1,
		DataLength:     12,
		Filename:       "test.txt",
	}).MarshalBinary()
	f.Add(valid)

	f.Add([]byte("random garbage"))
	f.Add([]byte("OSTG"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		h, err := format.Read(bytes.NewReader(data))
		if err != nil {
			return
		}
		// anything accepted must survive a re-encode
		again, err := h.MarshalBinary()
		if err != nil {
			t.Fatalf("accepted header does not marshal: %v", err)
		}
		if !bytes.Equal(again, data[:len(again)]) {
			t.Fatalf("re-encoded header differs from input")
		}
	})
}
