package datastream

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/ncw/directio"

	"github.com/hakuto838/indexskip/skiplist"
)

// WriteSequenceToFileDirectIO writes a Zipf-generated query sequence through
// directio-aligned blocks instead of the buffered os.File path of
// WriteSequenceToFile. Large streamfiles benefit from bypassing the page
// cache the way the boulder example's storage layer does for its WAL and
// SSTable writers; small ones don't, so callers pick this explicitly.
func (z *ZipfDataGenerator) WriteSequenceToFileDirectIO(filename string, k int) error {
	return writeIndicesDirectIO(filename, z.GenerateSequence(k))
}

// WriteSequenceToFileDirectIO is the uniform-distribution counterpart of
// ZipfDataGenerator.WriteSequenceToFileDirectIO.
func (u *UniformDataGenerator) WriteSequenceToFileDirectIO(filename string, k int) error {
	return writeIndicesDirectIO(filename, u.GenerateSequence(k))
}

func writeIndicesDirectIO(filename string, seq []skiplist.Index) error {
	raw := make([]byte, len(seq)*4)
	for i, v := range seq {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(v))
	}

	block := len(directio.AlignedBlock(directio.BlockSize))
	aligned := directio.AlignedBlock(alignedSize(len(raw), block))
	copy(aligned, raw)

	file, err := directio.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("directio open: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(aligned); err != nil {
		return fmt.Errorf("directio write: %w", err)
	}
	return nil
}

func alignedSize(n, block int) int {
	if n%block == 0 {
		return n
	}
	return (n/block + 1) * block
}
